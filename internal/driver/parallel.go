package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/source"
	"snep/internal/trace"
)

// FileResult содержит результат обработки одного файла
type FileResult struct {
	Path   string       // путь, как он был найден
	File   *source.File // nil, если файл не загрузился
	Nodes  []ast.Node
	Bag    *diag.Bag
	Errors uint
	Cached bool
}

// ListFiles возвращает отсортированный список файлов с расширением ext под root.
// Если root — файл, он возвращается как есть, независимо от расширения.
func ListFiles(fsys afero.Fs, root, ext string) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// expandPaths resolves every argument into files, dropping duplicates and
// keeping the order of the arguments.
func expandPaths(fsys afero.Fs, paths []string, ext string) ([]string, map[string]error) {
	var files []string
	seen := make(map[string]bool)
	missing := make(map[string]error)
	for _, p := range paths {
		found, err := ListFiles(fsys, p, ext)
		if err != nil {
			// отсутствующий аргумент — ошибка загрузки этого файла
			missing[p] = err
			found = []string{p}
		}
		for _, f := range found {
			key := filepath.Clean(f)
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, f)
		}
	}
	return files, missing
}

// ParseDir парсит все исходники в директории параллельно.
func ParseDir(ctx context.Context, fsys afero.Fs, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	return ParsePaths(ctx, fsys, []string{dir}, opts)
}

// ParsePaths parses files and directories in parallel. Results follow the
// order of the expanded paths. A file that cannot be read yields a result
// with a nil File and an IOLoadFileError diagnostic; the error return is
// reserved for cancellation.
func ParsePaths(ctx context.Context, fsys afero.Fs, paths []string, opts Options) (*source.FileSet, []FileResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "parse_paths")
	log := opts.logger()

	files, missing := expandPaths(fsys, paths, opts.ext())
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		span.End("no files")
		return fileSet, nil, nil
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}

	// Файлы читаются до запуска воркеров, чтобы фаза load мерилась отдельно
	loaded := make([]*source.File, len(files))
	loadErrors := make([]error, len(files))
	_ = opts.Measure("load", func() (int, error) {
		n := 0
		for i, path := range files {
			if err, ok := missing[path]; ok {
				loadErrors[i] = err
				continue
			}
			id, err := fileSet.Load(fsys, path)
			if err != nil {
				loadErrors[i] = err
				continue
			}
			loaded[i] = fileSet.Get(id)
			n++
		}
		return n, nil
	})

	opts.names = source.NewInterner()
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	err := opts.Measure("parse", func() (int, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(files)))
		for i, path := range files {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				start := time.Now()
				emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})

				if loadErr := loadErrors[i]; loadErr != nil {
					bag := diag.NewBag(opts.MaxDiagnostics)
					bag.Add(diag.NewError(diag.IOLoadFileError, source.NewLoc(path), "failed to load file: "+loadErr.Error()))
					results[i] = FileResult{Path: path, Bag: bag, Errors: 1}
					log.WithError(loadErr).WithField("file", path).Warn("failed to load file")
					emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(start)})
					return nil
				}

				res := parseFile(gctx, fileSet, loaded[i], opts)
				results[i] = FileResult{
					Path:   path,
					File:   res.File,
					Nodes:  res.Nodes,
					Bag:    res.Bag,
					Errors: res.Errors,
					Cached: res.Cached,
				}
				status := StatusDone
				if res.Errors > 0 {
					status = StatusError
				}
				emit(opts.Progress, Event{File: path, Stage: StageParse, Status: status, Elapsed: time.Since(start)})
				return nil
			})
		}
		return len(files), g.Wait()
	})

	span.WithExtra("files", strconv.Itoa(len(files))).
		WithExtra("names", strconv.Itoa(opts.names.Len()-1)).
		End("")
	if err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// Diagnosed is implemented by every per-file result of the driver.
type Diagnosed interface {
	Diagnostics() *diag.Bag
}

// Diagnostics returns the bag of the file.
func (r FileResult) Diagnostics() *diag.Bag { return r.Bag }

// MergeBags collects the diagnostics of all results into one sorted bag.
func MergeBags[R Diagnosed](results []R, maxDiagnostics int) *diag.Bag {
	out := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if bag := r.Diagnostics(); bag != nil {
			out.Merge(bag)
		}
	}
	out.Sort()
	return out
}
