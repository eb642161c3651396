package diag

import (
	"snep/internal/source"
)

// Note points at a secondary location, e.g. where an element was opened.
type Note struct {
	Loc source.Loc
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Loc
	Notes    []Note
}

// String renders "<loc>: <message>".
func (d Diagnostic) String() string {
	return d.Primary.String() + ": " + d.Message
}

// New builds a diagnostic without notes.
func New(sev Severity, code Code, primary source.Loc, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError is New with SevError.
func NewError(code Code, primary source.Loc, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns d with a secondary location appended.
func (d Diagnostic) WithNote(loc source.Loc, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}
