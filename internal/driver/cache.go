package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"

	"snep/internal/ast"
	"snep/internal/diag"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 2

// Digest identifies a cache entry.
type Digest [32]byte

// Cache хранит распарсенные леса на диске, по одному msgpack-файлу на вход.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	fs  afero.Fs
	dir string
}

// CachePayload is the on-disk form of one parse result.
type CachePayload struct {
	Schema      uint16
	Path        string
	Forest      ast.Flat
	Diagnostics []diag.Diagnostic
	Errors      uint
	// счётчики диагностик, не влезших в лимит
	Dropped       int
	DroppedErrors int
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app> or $HOME/.cache/<app>,
// resolving variables through lookupEnv.
func DefaultCacheDir(app string, lookupEnv func(string) (string, bool)) (string, error) {
	if base, ok := lookupEnv("XDG_CACHE_HOME"); ok && base != "" {
		return filepath.Join(base, app), nil
	}
	if home, ok := lookupEnv("HOME"); ok && home != "" {
		return filepath.Join(home, ".cache", app), nil
	}
	return "", errors.New("neither XDG_CACHE_HOME nor HOME is set")
}

// OpenCache creates dir if needed and returns a cache rooted there.
func OpenCache(fsys afero.Fs, dir string) (*Cache, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &Cache{fs: fsys, dir: dir}, nil
}

// CacheKey hashes everything a parse result depends on.
func CacheKey(path string, content []byte, maxDiagnostics int) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], cacheSchemaVersion)
	h.Write(buf[:2])
	h.Write([]byte(path))
	h.Write([]byte{0})
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(maxDiagnostics)))
	h.Write(buf[:])
	h.Write(content)
	var d Digest
	h.Sum(d[:0])
	return d
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "forests", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *Cache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := c.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := afero.TempFile(c.fs, filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = c.fs.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return c.fs.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the cache.
func (c *Cache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := c.fs.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes every cached forest.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fs.RemoveAll(filepath.Join(c.dir, "forests"))
}

type cacheEntry struct {
	Nodes         []ast.Node
	Diagnostics   []diag.Diagnostic
	Errors        uint
	Dropped       int
	DroppedErrors int
}

// lookup treats unreadable, stale and malformed entries as misses.
func (c *Cache) lookup(key Digest, log logrus.FieldLogger) (cacheEntry, bool) {
	var payload CachePayload
	ok, err := c.Get(key, &payload)
	if err != nil {
		log.WithError(err).Debug("ignoring unreadable cache entry")
		return cacheEntry{}, false
	}
	if !ok || payload.Schema != cacheSchemaVersion {
		return cacheEntry{}, false
	}
	nodes, err := payload.Forest.Expand()
	if err != nil {
		log.WithError(err).Debug("ignoring malformed cache entry")
		return cacheEntry{}, false
	}
	return cacheEntry{
		Nodes:         nodes,
		Diagnostics:   payload.Diagnostics,
		Errors:        payload.Errors,
		Dropped:       payload.Dropped,
		DroppedErrors: payload.DroppedErrors,
	}, true
}

func newCacheEntry(path string, res *ParseResult) *CachePayload {
	return &CachePayload{
		Schema:        cacheSchemaVersion,
		Path:          path,
		Forest:        ast.Flatten(res.Nodes),
		Diagnostics:   res.Bag.Items(),
		Errors:        res.Errors,
		Dropped:       res.Bag.Dropped(),
		DroppedErrors: res.Bag.DroppedErrors(),
	}
}
