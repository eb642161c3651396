// Package diag defines the diagnostic model shared by the parser and the driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short.
//   - Primary – the source.Loc the finding points at.
//   - Notes – optional secondary locations, e.g. where a mismatched element was opened.
//
// Structural problems of snep text are never Go errors: the parser reports
// them here and keeps building a tree. Diagnostic.String yields the plain
// "<loc>: <message>" form that the core Parse API returns.
//
// # Emitting diagnostics
//
// Producers build values with New, NewError and WithNote and hand them to a
// Reporter. BagReporter aggregates into a Bag, which supports limits,
// merging and sorting; ReporterFunc wraps ad-hoc sinks such as tests.
//
// Package diag does no terminal formatting; rendering lives in internal/diagfmt.
package diag
