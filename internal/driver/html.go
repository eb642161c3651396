package driver

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"snep/internal/diag"
	"snep/internal/htmlrender"
	"snep/internal/source"
	"snep/internal/trace"
)

// HTMLResult describes one rendered page.
type HTMLResult struct {
	Path string
	Out  string // пусто, если страница не записана
	Bag  *diag.Bag
}

// Diagnostics returns the bag of the file.
func (r HTMLResult) Diagnostics() *diag.Bag { return r.Bag }

// HTMLName maps a source path onto the page name inside the output dir.
func HTMLName(path, ext string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ext) + ".html"
}

// BuildHTML renders every file under paths into outDir/<name>.html. Files
// with error diagnostics are not written. Two inputs mapping onto the same
// page name are reported on the later one.
func BuildHTML(ctx context.Context, fsys afero.Fs, paths []string, outDir string, opts Options) (*source.FileSet, []HTMLResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "html")
	defer span.End("")

	fileSet, parsed, err := ParsePaths(ctx, fsys, paths, opts)
	if err != nil {
		return fileSet, nil, err
	}
	if err := fsys.MkdirAll(outDir, 0o755); err != nil {
		return fileSet, nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	log := opts.logger()
	written := make(map[string]string)
	out := make([]HTMLResult, len(parsed))
	for i, r := range parsed {
		out[i] = HTMLResult{Path: r.Path, Bag: r.Bag}
		if r.File == nil || r.Bag.HasErrors() {
			continue
		}
		name := HTMLName(r.Path, opts.ext())
		target := filepath.Join(outDir, name)
		if prev, dup := written[name]; dup {
			r.Bag.Add(diag.NewError(diag.IOWriteFileError, source.NewLoc(r.Path),
				fmt.Sprintf("%s was already written from %s", target, prev)))
			continue
		}

		emit(opts.Progress, Event{File: r.Path, Stage: StageRender, Status: StatusWorking})
		var buf bytes.Buffer
		if err := htmlrender.Write(&buf, r.Nodes); err != nil {
			return fileSet, out, err
		}
		if err := afero.WriteFile(fsys, target, buf.Bytes(), 0o644); err != nil {
			r.Bag.Add(diag.NewError(diag.IOWriteFileError, source.NewLoc(r.Path), err.Error()))
			emit(opts.Progress, Event{File: r.Path, Stage: StageWrite, Status: StatusError, Err: err})
			continue
		}
		written[name] = r.Path
		out[i].Out = target
		log.WithField("file", r.Path).WithField("out", target).Debug("wrote html")
		emit(opts.Progress, Event{File: r.Path, Stage: StageWrite, Status: StatusDone})
	}
	return fileSet, out, nil
}
