package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"snep/internal/testkit"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

// repoRoot is relative to the package directory, where go test runs.
var repoRoot = filepath.Join("..", "..")

var builtinSeeds = []string{
	"",
	"plain",
	"p(hello b[world] i{!})",
	`\c(raw p( stuff \c)`,
	`\q(a\q(b\q)c\q)`,
	`a\|b(c)`,
	"word|(x)",
	"x) y] z}",
	"open( never[ closed{",
	"p(q]r)",
	"+(a(1) b(2)) href=[x]",
	"\xef\xbb\xbfbom(x)\r\n",
	"\xff\xfe(bad utf8)",
}

// addCorpusSeeds feeds the built-in samples, every testdata/*.snep file and
// the snep examples of README.md.
func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	fsys := afero.NewReadOnlyFs(afero.NewOsFs())
	for _, src := range testdataSeeds(fsys, filepath.Join(repoRoot, "testdata")) {
		f.Add(src)
	}
	if readme, err := afero.ReadFile(fsys, filepath.Join(repoRoot, "README.md")); err == nil {
		for _, block := range testkit.MarkdownBlocks(readme, "snep") {
			f.Add(clamp(block, maxSeedBytes))
		}
	}
}

func testdataSeeds(fsys afero.Fs, root string) [][]byte {
	var out [][]byte
	_ = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".snep" {
			return nil // нечитаемые файлы просто пропускаем
		}
		if src, err := afero.ReadFile(fsys, path); err == nil {
			out = append(out, clamp(src, maxSeedBytes))
		}
		return nil
	})
	return out
}

// clamp returns a private copy of at most n bytes of src.
func clamp(src []byte, n int) []byte {
	return append([]byte(nil), src[:min(len(src), n)]...)
}

func clampInput(input []byte) []byte {
	return clamp(input, maxFuzzInput)
}
