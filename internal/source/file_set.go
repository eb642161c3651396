package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
	"github.com/spf13/afero"
)

// FileSet owns the contents of every loaded file. Re-adding a path creates a
// new version; lookups by path see the latest one. All methods are safe for
// concurrent use.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	latest  map[string]*File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]*File)}
}

// SetBaseDir задаёт каталог, от которого считаются относительные пути.
func (s *FileSet) SetBaseDir(dir string) {
	s.mu.Lock()
	s.baseDir = dir
	s.mu.Unlock()
}

// BaseDir returns the directory set by SetBaseDir, or the working directory.
func (s *FileSet) BaseDir() string {
	s.mu.RLock()
	dir := s.baseDir
	s.mu.RUnlock()
	if dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers content under path and returns the new version's id.
// Content is kept byte-for-byte; a BOM or CRLF endings only set flags.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags | detectFlags(content),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f.ID = FileID(id)
	s.files = append(s.files, f)
	s.latest[f.Path] = f
	return f.ID
}

// AddVirtual adds content that did not come from disk (stdin, tests).
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Load reads path through fsys and adds it.
func (s *FileSet) Load(fsys afero.Fs, path string) (FileID, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return 0, err
	}
	return s.Add(path, content, 0), nil
}

// Get returns the version with the given id, or nil.
func (s *FileSet) Get(id FileID) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.files) {
		return nil
	}
	return s.files[id]
}

// GetByPath returns the latest version loaded under path.
func (s *FileSet) GetByPath(path string) (*File, bool) {
	s.mu.RLock()
	f, ok := s.latest[normalizePath(path)]
	s.mu.RUnlock()
	return f, ok
}

// Len counts versions, not distinct paths.
func (s *FileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
