package testkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snep/internal/parser"
)

func TestMarkdownBlocks(t *testing.T) {
	doc := []byte("# t\n\n```snep\np(x)\n```\n\n```go\nfunc() {}\n```\n\n```snep extra\na|b(c)\nd\n```\n\n    \\c(indented\\c)\n")
	blocks := MarkdownBlocks(doc, "snep")
	require.Len(t, blocks, 2)
	assert.Equal(t, "p(x)", string(blocks[0]))
	assert.Equal(t, "a|b(c)\nd", string(blocks[1]))
	assert.Empty(t, MarkdownBlocks(doc, "rust"))
}

// примеры из README должны переживать round trip байт в байт
func TestReadmeExamplesRoundTrip(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "README.md"))
	require.NoError(t, err)

	blocks := MarkdownBlocks(data, "snep")
	require.NotEmpty(t, blocks)
	for _, b := range blocks {
		assert.True(t, bytes.Equal(b, RenderParse(b)), "README example %q", b)
		nodes, diags := parser.Parse(b, "README.md")
		assert.Empty(t, diags)
		assert.NoError(t, CheckTree(nodes))
	}
}
