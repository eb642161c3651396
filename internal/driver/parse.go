package driver

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/parser"
	"snep/internal/source"
	"snep/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Nodes   []ast.Node
	Bag     *diag.Bag
	Errors  uint // включая диагностики сверх лимита
	Cached  bool
}

// Parse loads path and parses it, consulting opts.Cache when set.
func Parse(ctx context.Context, fsys afero.Fs, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return parseFile(ctx, fs, fs.Get(fileID), opts), nil
}

// ParseSource parses in-memory content registered under name (stdin, tests).
func ParseSource(ctx context.Context, name string, content []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return parseFile(ctx, fs, fs.Get(fileID), opts)
}

func parseFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *ParseResult {
	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, "parse_file")
	defer span.WithExtra("file", file.Path).End("")

	log := opts.logger().WithField("file", file.Path)
	res := &ParseResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}

	key := CacheKey(file.Path, file.Content, opts.MaxDiagnostics)
	if opts.Cache != nil {
		if entry, ok := opts.Cache.lookup(key, log); ok {
			for _, d := range entry.Diagnostics {
				res.Bag.Add(d)
			}
			res.Bag.AddDropped(entry.Dropped, entry.DroppedErrors)
			res.Nodes = entry.Nodes
			res.Errors = entry.Errors
			res.Cached = true
			log.Debug("cache hit")
			return res
		}
	}

	out := parser.ParseFile(ctx, file, parser.Options{
		MaxErrors: opts.maxErrors(),
		Reporter:  diag.BagReporter{Bag: res.Bag},
		Names:     opts.names,
	})
	res.Nodes = out.Nodes
	res.Errors = out.Errors
	log.WithFields(logrus.Fields{"tokens": out.Tokens, "errors": out.Errors}).Debug("parsed")

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, newCacheEntry(file.Path, res)); err != nil {
			log.WithError(err).Warn("failed to store parse result in cache")
		}
	}
	return res
}
