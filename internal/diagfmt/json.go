package diagfmt

import (
	"encoding/json"
	"io"

	"snep/internal/diag"
	"snep/internal/source"
)

// LocationJSON is a 1-based position; unknown locations have no fields.
type LocationJSON struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line uint32 `json:"line,omitempty" yaml:"line,omitempty"`
	Col  uint32 `json:"col,omitempty" yaml:"col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message" yaml:"message"`
	Location LocationJSON `json:"location" yaml:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity" yaml:"severity"`
	Code     string       `json:"code" yaml:"code"`
	Message  string       `json:"message" yaml:"message"`
	Location LocationJSON `json:"location" yaml:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// DiagnosticsOutput — корень JSON-вывода диагностик.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Count       int              `json:"count" yaml:"count"`
	Dropped     int              `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

type jsonEncoder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (e jsonEncoder) location(loc source.Loc) LocationJSON {
	out := LocationJSON{File: displayPath(loc, e.fs, e.opts.PathMode)}
	if e.opts.IncludePositions && loc.Known() {
		lc := loc.LineCol()
		out.Line, out.Col = lc.Line, lc.Col
	}
	return out
}

func (e jsonEncoder) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: e.location(d.Primary),
	}
	if !e.opts.IncludeNotes {
		return out
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: e.location(n.Loc)})
	}
	return out
}

// BuildDiagnosticsOutput converts at most opts.Max diagnostics of bag. Both
// the bag's own drops and the cut by Max count as Dropped.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		out.Dropped = len(items) - opts.Max
		items = items[:opts.Max]
	}
	enc := jsonEncoder{fs: fs, opts: opts}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, enc.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	out.Dropped += bag.Dropped()
	return out
}

// JSON writes BuildDiagnosticsOutput as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
