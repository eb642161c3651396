package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"snep/internal/diag"
	"snep/internal/format"
	"snep/internal/source"
	"snep/internal/trace"
)

// RoundTripResult compares a file with the rendering of its forest.
type RoundTripResult struct {
	*ParseResult
	Rendered []byte
	Equal    bool
}

// CheckRoundTrip reports whether render(parse(x)) == x for the file at path.
func CheckRoundTrip(ctx context.Context, fsys afero.Fs, path string, opts Options) (*RoundTripResult, error) {
	res, err := Parse(ctx, fsys, path, opts)
	if err != nil {
		return nil, err
	}
	return RoundTrip(ctx, res), nil
}

// RoundTrip renders an existing parse result and compares it with the source.
func RoundTrip(ctx context.Context, res *ParseResult) *RoundTripResult {
	span, _ := trace.StartSpan(ctx, trace.ScopePass, "render")
	out := format.Render(res.Nodes)
	span.End("")
	return &RoundTripResult{
		ParseResult: res,
		Rendered:    out,
		Equal:       bytes.Equal(out, res.File.Content),
	}
}

// FormatResult describes what fmt did with one file.
type FormatResult struct {
	Path    string
	Output  []byte // нормализованный текст; nil, если файл не прочитан
	Changed bool
	Written bool
	Bag     *diag.Bag
}

// Diagnostics returns the bag of the file.
func (r FormatResult) Diagnostics() *diag.Bag { return r.Bag }

// FormatPaths renders every file under paths in normalised form (redundant
// dividers removed). With write set, changed files without error
// diagnostics are rewritten in place.
func FormatPaths(ctx context.Context, fsys afero.Fs, paths []string, write bool, opts Options) (*source.FileSet, []FormatResult, error) {
	fileSet, parsed, err := ParsePaths(ctx, fsys, paths, opts)
	if err != nil {
		return fileSet, nil, err
	}
	log := opts.logger()
	out := make([]FormatResult, len(parsed))
	for i, r := range parsed {
		out[i] = FormatResult{Path: r.Path, Bag: r.Bag}
		if r.File == nil {
			continue
		}
		emit(opts.Progress, Event{File: r.Path, Stage: StageRender, Status: StatusWorking})
		rendered := format.Render(r.Nodes)
		out[i].Output = rendered
		out[i].Changed = !bytes.Equal(rendered, r.File.Content)

		if !write || !out[i].Changed || r.Bag.HasErrors() {
			emit(opts.Progress, Event{File: r.Path, Stage: StageRender, Status: StatusDone})
			continue
		}
		if err := writeFile(fsys, r.Path, rendered); err != nil {
			r.Bag.Add(diag.NewError(diag.IOWriteFileError, source.NewLoc(r.Path), err.Error()))
			emit(opts.Progress, Event{File: r.Path, Stage: StageWrite, Status: StatusError, Err: err})
			continue
		}
		out[i].Written = true
		log.WithField("file", r.Path).Info("formatted")
		emit(opts.Progress, Event{File: r.Path, Stage: StageWrite, Status: StatusDone})
	}
	return fileSet, out, nil
}

// writeFile replaces path keeping its permissions.
func writeFile(fsys afero.Fs, path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(fsys, path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
