// Package prof wraps the runtime profilers used by the snep CLI for long
// runs over large document trees.
package prof

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spf13/afero"
)

// Options names the output files; an empty path disables that profiler.
type Options struct {
	CPU          string
	Mem          string
	RuntimeTrace string
}

// Enabled reports whether any profiler is requested.
func (o Options) Enabled() bool {
	return o.CPU != "" || o.Mem != "" || o.RuntimeTrace != ""
}

// Session is a set of running profilers. Stop may be called more than once.
type Session struct {
	fs       afero.Fs
	memPath  string
	cpu      afero.File
	runtrace afero.File
	stopped  bool
}

// Start enables the profilers requested by opts.
func Start(fsys afero.Fs, opts Options) (*Session, error) {
	s := &Session{fs: fsys, memPath: opts.Mem}
	if opts.CPU != "" {
		f, err := fsys.Create(opts.CPU)
		if err != nil {
			return nil, fmt.Errorf("failed to create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		s.cpu = f
	}
	if opts.RuntimeTrace != "" {
		f, err := fsys.Create(opts.RuntimeTrace)
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			// cpu-профиль не должен пережить ошибку
			_ = s.stopCPU()
			return nil, fmt.Errorf("failed to start runtime trace: %w", err)
		}
		s.runtrace = f
	}
	return s, nil
}

// Stop ends the running profilers and writes the heap profile.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.runtrace != nil {
		trace.Stop()
		errs = append(errs, s.runtrace.Close())
		s.runtrace = nil
	}
	errs = append(errs, s.stopCPU())
	if s.memPath != "" {
		errs = append(errs, s.writeMem())
	}
	return errors.Join(errs...)
}

func (s *Session) stopCPU() error {
	if s.cpu == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpu.Close()
	s.cpu = nil
	return err
}

func (s *Session) writeMem() (err error) {
	f, err := s.fs.Create(s.memPath)
	if err != nil {
		return fmt.Errorf("failed to create heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return WriteHeap(f)
}

// WriteHeap collects garbage and writes a heap profile to w.
func WriteHeap(w io.Writer) error {
	runtime.GC()
	if err := pprof.WriteHeapProfile(w); err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	return nil
}
