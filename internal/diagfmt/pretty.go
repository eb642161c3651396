package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"snep/internal/diag"
	"snep/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с кареткой под колонкой, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s: %s\n",
			p.loc.Sprint(formatLoc(d.Primary, fs, opts.PathMode)),
			p.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID()),
			d.Message)
		writeContext(w, p, d.Primary, fs, opts.Context)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), formatLoc(n.Loc, fs, opts.PathMode), n.Msg)
			writeContext(w, p, n.Loc, fs, 0)
		}
	}
}

// writeContext prints the line of loc, up to extra preceding lines, and a
// caret under the column. Nothing is printed when the file is unknown.
func writeContext(w io.Writer, p palette, loc source.Loc, fs *source.FileSet, extra int8) {
	if !loc.Known() || fs == nil {
		return
	}
	f, ok := fs.GetByPath(loc.File)
	if !ok {
		return
	}
	lc := loc.LineCol()
	first := lc.Line
	for extra > 0 && first > 1 {
		first--
		extra--
	}
	width := len(fmt.Sprint(lc.Line))
	for n := first; n <= lc.Line; n++ {
		line := diag.LossyString(f.GetLine(n))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), line)
	}
	line := f.GetLine(lc.Line)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), caretPad(line, int(loc.Col)), p.caret.Sprint("^"))
}

// caretPad returns blanks matching the display width of line[:col].
// Tabs are kept so the caret lines up with the printed line.
func caretPad(line string, col int) string {
	col = min(col, len(line))
	prefix := diag.LossyString(line[:col])
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
