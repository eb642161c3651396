package driver

import (
	"context"
	"sync"
	"testing"
	"unsafe"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/observ"
	"snep/internal/token"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestTokenize(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.snep": "x p(y)"})
	res, err := Tokenize(context.Background(), fs, "/a.snep")
	require.NoError(t, err)
	require.Len(t, res.Tokens, 5)
	assert.Equal(t, token.EOF, res.Tokens[4].Kind)
	assert.Equal(t, "p", res.Tokens[1].Text)

	_, err = Tokenize(context.Background(), fs, "/missing.snep")
	require.Error(t, err)
}

func TestParseSource(t *testing.T) {
	res := ParseSource(context.Background(), "mem.snep", []byte("a(b) c)"), Options{})
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, diag.SynUnmatchedCloser, res.Bag.Items()[0].Code)
	assert.Equal(t, uint(1), res.Errors)
	assert.False(t, res.Cached)
}

func TestParseMaxDiagnostics(t *testing.T) {
	res := ParseSource(context.Background(), "m.snep", []byte(") ) )"), Options{MaxDiagnostics: 2})
	assert.Equal(t, 2, res.Bag.Len())
	assert.Equal(t, uint(3), res.Errors)
}

func TestParsePathsOrderAndLoadErrors(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/d/b.snep":     "b(1)",
		"/d/a.snep":     "a(1",
		"/d/sub/c.snep": "c",
		"/d/skip.txt":   "ignored",
	})

	var mu sync.Mutex
	var events []Event
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})
	timer := observ.NewTimer()

	fileSet, results, err := ParsePaths(context.Background(), fs,
		[]string{"/d", "/missing.snep", "/d/a.snep"},
		Options{Jobs: 2, Progress: sink, Timer: timer})
	require.NoError(t, err)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/d/a.snep", "/d/b.snep", "/d/sub/c.snep", "/missing.snep"}, paths)
	assert.Equal(t, 3, fileSet.Len())

	assert.Equal(t, diag.SynUnclosedElement, results[0].Bag.Items()[0].Code)
	assert.False(t, results[1].Bag.HasErrors())
	assert.Nil(t, results[3].File)
	require.Equal(t, 1, results[3].Bag.Len())
	assert.Equal(t, diag.IOLoadFileError, results[3].Bag.Items()[0].Code)
	assert.Equal(t, "/missing.snep", results[3].Bag.Items()[0].Primary.File)

	merged := MergeBags(results, 0)
	assert.Equal(t, 2, merged.Len())

	// по событию queued и финальному на каждый файл
	counts := map[Status]int{}
	for _, ev := range events {
		counts[ev.Status]++
	}
	assert.Equal(t, 4, counts[StatusQueued])
	assert.Equal(t, 2, counts[StatusDone])
	assert.Equal(t, 2, counts[StatusError])

	report := timer.Report()
	require.Len(t, report.Phases, 2)
	assert.Equal(t, "load", report.Phases[0].Name)
	assert.Equal(t, 3, report.Phases[0].Items)
}

func firstElement(t *testing.T, nodes []ast.Node) *ast.Element {
	t.Helper()
	for _, n := range nodes {
		if el, ok := n.(*ast.Element); ok {
			return el
		}
	}
	t.Fatal("no element")
	return nil
}

// одинаковые имена из разных файлов разделяют одну строку
func TestParsePathsSharesNames(t *testing.T) {
	fs := memFS(t, map[string]string{"/n/a.snep": "li(x)", "/n/b.snep": "li(y)"})
	_, results, err := ParseDir(context.Background(), fs, "/n", Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	a := firstElement(t, results[0].Nodes).Name
	b := firstElement(t, results[1].Nodes).Name
	require.Equal(t, "li", a)
	assert.Same(t, unsafe.StringData(a), unsafe.StringData(b))
}

func TestParsePathsEmptyDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty", 0o755))
	_, results, err := ParseDir(context.Background(), fs, "/empty", Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParsePathsCancelled(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.snep": "a", "/b.snep": "b"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ParsePaths(ctx, fs, []string{"/a.snep", "/b.snep"}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCacheHit(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.snep": "p(x \\c(y\\c) z] w"})
	cache, err := OpenCache(fs, "/cache")
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts := Options{Cache: cache, Logger: logger}

	first, err := Parse(context.Background(), fs, "/a.snep", opts)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := Parse(context.Background(), fs, "/a.snep", opts)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.True(t, ast.Equal(first.Nodes, second.Nodes))
	assert.Equal(t, first.Bag.Items(), second.Bag.Items())
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, "cache hit", hook.LastEntry().Message)

	// другой лимит — другой ключ
	third, err := Parse(context.Background(), fs, "/a.snep", Options{Cache: cache, MaxDiagnostics: 1})
	require.NoError(t, err)
	assert.False(t, third.Cached)

	require.NoError(t, cache.DropAll())
	fourth, err := Parse(context.Background(), fs, "/a.snep", opts)
	require.NoError(t, err)
	assert.False(t, fourth.Cached)
}

func TestCacheHitKeepsDroppedCounts(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.snep": ") ) )"})
	cache, err := OpenCache(fs, "/cache")
	require.NoError(t, err)
	opts := Options{Cache: cache, MaxDiagnostics: 1}

	first, err := Parse(context.Background(), fs, "/a.snep", opts)
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, 2, first.Bag.Dropped())

	second, err := Parse(context.Background(), fs, "/a.snep", opts)
	require.NoError(t, err)
	require.True(t, second.Cached)
	assert.Equal(t, 1, second.Bag.Len())
	assert.Equal(t, 2, second.Bag.Dropped())
	assert.Equal(t, 2, second.Bag.DroppedErrors())
	assert.True(t, second.Bag.HasErrors())
	assert.Equal(t, uint(3), second.Errors)
}

func TestCacheCorruptEntryIgnored(t *testing.T) {
	content := "a(b)"
	fs := memFS(t, map[string]string{"/a.snep": content})
	cache, err := OpenCache(fs, "/cache")
	require.NoError(t, err)

	key := CacheKey("/a.snep", []byte(content), 0)
	require.NoError(t, afero.WriteFile(fs, cache.pathFor(key), []byte{0xc1, 0xff, 0x00}, 0o644))

	res, err := Parse(context.Background(), fs, "/a.snep", Options{Cache: cache})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	require.Len(t, res.Nodes, 2)

	// испорченная запись перезаписана корректной
	again, err := Parse(context.Background(), fs, "/a.snep", Options{Cache: cache})
	require.NoError(t, err)
	assert.True(t, again.Cached)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	ok, err := c.Get(Digest{}, &CachePayload{})
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Put(Digest{}, &CachePayload{}))
	require.NoError(t, c.DropAll())
}

func TestCheckRoundTrip(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/exact.snep":     "a|(x) \\q(b(\\q) y",
		"/redundant.snep": " |p(x)",
	})

	exact, err := CheckRoundTrip(context.Background(), fs, "/exact.snep", Options{})
	require.NoError(t, err)
	assert.True(t, exact.Equal, "rendered %q", exact.Rendered)

	redundant, err := CheckRoundTrip(context.Background(), fs, "/redundant.snep", Options{})
	require.NoError(t, err)
	assert.False(t, redundant.Equal)
	assert.Equal(t, " p(x)", string(redundant.Rendered))
}

func TestFormatPaths(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/f/clean.snep":  "p(x)",
		"/f/dirty.snep":  " |p(x)",
		"/f/broken.snep": "q( |p(x)",
	})

	_, results, err := FormatPaths(context.Background(), fs, []string{"/f"}, false, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	byPath := map[string]FormatResult{}
	for _, r := range results {
		byPath[r.Path] = r
	}
	assert.True(t, byPath["/f/dirty.snep"].Changed)
	assert.False(t, byPath["/f/dirty.snep"].Written)
	assert.False(t, byPath["/f/clean.snep"].Changed)

	_, results, err = FormatPaths(context.Background(), fs, []string{"/f"}, true, Options{})
	require.NoError(t, err)
	for _, r := range results {
		switch r.Path {
		case "/f/dirty.snep":
			assert.True(t, r.Written)
		case "/f/broken.snep":
			assert.True(t, r.Bag.HasErrors())
			assert.False(t, r.Written)
		}
	}
	data, err := afero.ReadFile(fs, "/f/dirty.snep")
	require.NoError(t, err)
	assert.Equal(t, " p(x)", string(data))

	data, err = afero.ReadFile(fs, "/f/broken.snep")
	require.NoError(t, err)
	assert.Equal(t, "q( |p(x)", string(data))
}

func TestBuildHTML(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/src/page.snep":     "h1(Hi) +(p(a) p(b))",
		"/src/bad.snep":      "x)",
		"/src/sub/page.snep": "dup",
	})

	_, results, err := BuildHTML(context.Background(), fs, []string{"/src"}, "/out", Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	data, err := afero.ReadFile(fs, "/out/page.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1> ab", string(data))

	for _, r := range results {
		switch r.Path {
		case "/src/bad.snep":
			assert.Empty(t, r.Out)
			assert.True(t, r.Bag.HasErrors())
		case "/src/page.snep":
			assert.Equal(t, "/out/page.html", r.Out)
		case "/src/sub/page.snep":
			assert.Empty(t, r.Out)
			require.Equal(t, 1, r.Bag.Len())
			assert.Equal(t, diag.IOWriteFileError, r.Bag.Items()[0].Code)
		}
	}
	merged := MergeBags(results, 0)
	assert.Equal(t, 2, merged.Len())
	assert.True(t, merged.HasErrors())

	exists, err := afero.Exists(fs, "/out/bad.html")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHTMLName(t *testing.T) {
	assert.Equal(t, "index.html", HTMLName("docs/index.snep", ".snep"))
	assert.Equal(t, "notes.txt.html", HTMLName("notes.txt", ".snep"))
}
