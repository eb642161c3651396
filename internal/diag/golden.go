package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"snep/internal/source"
)

// goldenLine is one row of the golden format: "<sev> <code> <path:line:col> <msg>".
type goldenLine struct {
	sev, code, path string
	line, col       uint32
	msg             string
}

func (g goldenLine) String() string {
	if g.path == "" {
		return fmt.Sprintf("%s %s <unknown> %s", g.sev, g.code, g.msg)
	}
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.sev, g.code, g.path, g.line, g.col, g.msg)
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.sev, b.sev),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted so that output is stable across runs. Absolute
// paths are shown relative to baseDir when possible; messages are folded onto
// a single line.
func FormatGoldenDiagnostics(diags []Diagnostic, baseDir string, includeNotes bool) string {
	var lines []goldenLine
	for _, d := range diags {
		code := d.Code.ID()
		lines = append(lines, newGoldenLine(strings.ToLower(d.Severity.String()), code, d.Primary, d.Message, baseDir))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, newGoldenLine("note", code, n.Loc, n.Msg, baseDir))
		}
	}
	slices.SortStableFunc(lines, compareGolden)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func newGoldenLine(sev, code string, loc source.Loc, msg, baseDir string) goldenLine {
	g := goldenLine{sev: sev, code: code, msg: strings.Join(strings.Fields(msg), " ")}
	if loc.Known() {
		lc := loc.LineCol()
		g.path, g.line, g.col = goldenPath(loc.File, baseDir), lc.Line, lc.Col
	}
	return g
}

func goldenPath(path, baseDir string) string {
	if baseDir != "" && filepath.IsAbs(path) {
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			path = rel
		}
	}
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}
