package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"snep/internal/diag"
	"snep/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("/home/user/project/src/test.snep", []byte("p(q{r)\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.SynMismatchedCloser,
		source.Loc{File: "/home/user/project/src/test.snep", Col: 5},
		"')' doesn't close 'q{'",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.snep:1:6"},
		{"Relative path", PathModeRelative, "src/test.snep:1:6"},
		{"Basename only", PathModeBasename, "test.snep:1:6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SYN2001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

// TestPrettyCaret проверяет строку контекста и положение каретки
func TestPrettyCaret(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.snep", []byte("p(q{r)\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynMismatchedCloser, source.Loc{File: "a.snep", Col: 5}, "bad closer"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})

	want := "a.snep:1:6: ERROR SYN2001: bad closer\n" +
		"1 | p(q{r)\n" +
		"  |      ^\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("b.snep", []byte("one\np[two\nx)\n"))

	d := diag.NewError(diag.SynMismatchedCloser, source.Loc{File: "b.snep", Row: 2, Col: 1}, "')' doesn't close 'p['").
		WithNote(source.Loc{File: "b.snep", Row: 1}, "element opened here")
	bag := diag.NewBag(0)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"2 | p[two\n3 | x)\n  |  ^\n",
		"note: b.snep:2:1: element opened here\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyUnknownLocation(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynUnmatchedCloser, source.Loc{}, "')' doesn't close anything"))

	var buf bytes.Buffer
	Pretty(&buf, bag, nil, PrettyOpts{})
	if got, want := buf.String(), "<unknown>: ERROR SYN2002: ')' doesn't close anything\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Каретка учитывает ширину символов
func TestCaretPad(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want string
	}{
		{"abc", 2, "  "},
		{"\tx", 1, "\t"},
		{"日本(x", 6, "    "},
		{"ab", 10, "  "},
	}
	for _, tt := range tests {
		if got := caretPad(tt.line, tt.col); got != tt.want {
			t.Errorf("caretPad(%q, %d) = %q, want %q", tt.line, tt.col, got, tt.want)
		}
	}
}
