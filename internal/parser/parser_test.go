package parser_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/lexer"
	"snep/internal/parser"
	"snep/internal/source"
	"snep/internal/token"
	"snep/internal/trace"
)

type T = ast.Text

func el(name string, kind token.DelimKind, children ...ast.Node) *ast.Element {
	return &ast.Element{Name: name, Delim: kind, Children: children}
}

func mark(kind token.DelimKind) ast.Node {
	return ast.EscapeMarker(kind)
}

// dump — компактное представление леса для сообщений об ошибках
func dump(nodes []ast.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case ast.Text:
			parts = append(parts, fmt.Sprintf("%q", string(n)))
		case *ast.Element:
			parts = append(parts, fmt.Sprintf("%s%c%s%c", n.Name, n.Opener(), dump(n.Children), n.Closer()))
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func TestParse(t *testing.T) {
	const (
		P = token.Parenthesis
		B = token.Bracket
		C = token.Brace
	)
	tests := []struct {
		name  string
		input string
		want  []ast.Node
		diags []string
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "just text",
			want:  []ast.Node{T("just text")},
		},
		{
			name:  "trailing word rule",
			input: "a(b)c",
			want:  []ast.Node{T(""), el("a", P, T(""), T("b")), T("c")},
		},
		{
			name:  "nested kinds",
			input: "x{y[z]}",
			want: []ast.Node{
				T(""), el("x", C, T(""), el("y", B, T(""), T("z")), T(""), T("")),
			},
		},
		{
			name:  "unmatched closer",
			input: "x)",
			want:  []ast.Node{T(""), T("x"), T(")")},
			diags: []string{"f.snep:1:1: ')' doesn't close anything"},
		},
		{
			name:  "bracket closer at root mismatches the implicit paren",
			input: "a ]",
			want:  []ast.Node{T("a "), T(""), mark(P)},
			diags: []string{"f.snep:1:3: ']' doesn't close '(' at <unknown>"},
		},
		{
			name:  "brace closer at root",
			input: "x}",
			want:  []ast.Node{T(""), T("x"), mark(P)},
			diags: []string{"f.snep:1:1: '}' doesn't close '(' at <unknown>"},
		},
		{
			name:  "mismatch recovery",
			input: "a(b]",
			want:  []ast.Node{T(""), T("a"), mark(P), T(""), T("b"), mark(P)},
			diags: []string{
				"f.snep:1:3: ']' doesn't close 'a(' at f.snep:1:1",
				"f.snep:1:1: 'a(' was never closed",
			},
		},
		{
			name:  "mismatch then proper close",
			input: "a[b)c]",
			want:  []ast.Node{T(""), el("a", B, T(""), T("b"), mark(B), T(""), T("c"))},
			diags: []string{"f.snep:1:3: ')' doesn't close 'a[' at f.snep:1:1"},
		},
		{
			name:  "nested unclosed melt outermost first",
			input: "a(b[c",
			want:  []ast.Node{T(""), T("a"), mark(P), T(""), T("b"), mark(B), T("c")},
			diags: []string{"f.snep:1:1: 'a(' was never closed"},
		},
		{
			name:  "unclosed inside closed",
			input: "p(q{r)",
			want:  []ast.Node{T(""), T("p"), mark(P), T(""), T("q"), mark(C), T(""), T("r"), mark(C)},
			diags: []string{
				"f.snep:1:5: ')' doesn't close 'q{' at f.snep:1:3",
				"f.snep:1:1: 'p(' was never closed",
			},
		},
		{
			name:  "literal fence",
			input: `\x(raw (text) here\x)`,
			want: []ast.Node{
				T(""), el(`\x`, P, T("raw "), T(""), T("("), T(""), T("text"), T(")"), T(" here")),
			},
		},
		{
			name:  "literal ignores other closers",
			input: `\q(a]b\q)`,
			want:  []ast.Node{T(""), el(`\q`, P, T(""), T("a"), T("]"), T("b"))},
		},
		{
			name:  "literal reopened by its own name",
			input: `\q(a\q(b\q)c\q)`,
			want:  []ast.Node{T(""), el(`\q`, P, T("a"), el(`\q`, P, T("b")), T("c"))},
		},
		{
			name:  "literal fence needs same kind",
			input: `\q(a\q]`,
			want:  []ast.Node{T(""), T(`\q`), mark(P), T("a"), mark(P)},
			diags: []string{
				`f.snep:1:5: ']' doesn't close '\q(' at f.snep:1:1`,
				`f.snep:1:1: '\q(' was never closed`,
			},
		},
		{
			name:  "divider before element",
			input: "word|b(c)",
			want:  []ast.Node{T("word"), el("b", P, T(""), T("c"))},
		},
		{
			name:  "invalid utf-8 name in message",
			input: "\xff(",
			want:  []ast.Node{T(""), T("\xff"), mark(P)},
			diags: []string{"f.snep:1:1: '�(' was never closed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := parser.Parse([]byte(tt.input), "f.snep")
			if !ast.Equal(got, tt.want) {
				t.Errorf("forest mismatch\n got: %s\nwant: %s", dump(got), dump(tt.want))
			}
			if len(diags) != len(tt.diags) {
				t.Fatalf("diagnostics = %q, want %q", diags, tt.diags)
			}
			for i := range diags {
				if diags[i] != tt.diags[i] {
					t.Errorf("diag[%d] = %q, want %q", i, diags[i], tt.diags[i])
				}
			}
		})
	}
}

func TestElementsKeepLocations(t *testing.T) {
	got, _ := parser.Parse([]byte("one\n  two(x)"), "loc.snep")
	if len(got) != 2 {
		t.Fatalf("unexpected forest %s", dump(got))
	}
	e, ok := got[1].(*ast.Element)
	if !ok {
		t.Fatalf("expected element, got %T", got[1])
	}
	want := source.Loc{File: "loc.snep", Row: 1, Col: 2}
	if e.Loc != want {
		t.Errorf("loc = %v, want %v", e.Loc, want)
	}
}

func TestUnknownSourceName(t *testing.T) {
	_, diags := parser.Parse([]byte("]"), "")
	if len(diags) != 1 || diags[0] != "<unknown>: ']' doesn't close '(' at <unknown>" {
		t.Fatalf("diags = %q", diags)
	}
	_, diags = parser.Parse([]byte(")"), "")
	if len(diags) != 1 || diags[0] != "<unknown>: ')' doesn't close anything" {
		t.Fatalf("diags = %q", diags)
	}
}

// несовпадение на корне не добавляет заметку с неизвестной позицией
func TestRootMismatchHasNoNote(t *testing.T) {
	bag := diag.NewBag(0)
	parser.ParseTokens(context.Background(),
		lexer.New([]byte("a ]"), source.NewLoc("r.snep")).All(),
		parser.Options{Reporter: diag.BagReporter{Bag: bag}})

	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynMismatchedCloser {
		t.Fatalf("items = %+v", items)
	}
	if len(items[0].Notes) != 0 {
		t.Fatalf("unexpected notes: %+v", items[0].Notes)
	}
}

func TestMaxErrors(t *testing.T) {
	bag := diag.NewBag(0)
	src := []byte("))))")
	res := parser.ParseTokens(context.Background(),
		lexer.New(src, source.NewLoc("m.snep")).All(),
		parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 2})

	if bag.Len() != 2 {
		t.Fatalf("expected 2 reported diagnostics, got %d", bag.Len())
	}
	if res.Errors != 4 {
		t.Fatalf("expected 4 counted errors, got %d", res.Errors)
	}
	// восстановление продолжается и после лимита
	if len(res.Nodes) != 12 {
		t.Fatalf("forest = %s", dump(res.Nodes))
	}
}

func TestMismatchCarriesNote(t *testing.T) {
	bag := diag.NewBag(0)
	parser.ParseTokens(context.Background(),
		lexer.New([]byte("a(b}"), source.NewLoc("n.snep")).All(),
		parser.Options{Reporter: diag.BagReporter{Bag: bag}})

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(items))
	}
	if items[0].Code != diag.SynMismatchedCloser || items[1].Code != diag.SynUnclosedElement {
		t.Fatalf("codes = %v, %v", items[0].Code, items[1].Code)
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Loc != source.NewLoc("n.snep") {
		t.Fatalf("notes = %+v", items[0].Notes)
	}
}

func TestParseFile(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("v.snep", []byte("k[v]")))
	res := parser.ParseFile(context.Background(), file, parser.Options{})
	want := []ast.Node{T(""), el("k", token.Bracket, T(""), T("v"))}
	if !ast.Equal(res.Nodes, want) {
		t.Fatalf("forest = %s", dump(res.Nodes))
	}
	if res.Tokens != 4 {
		t.Fatalf("tokens = %d", res.Tokens)
	}
}

func TestParseEmitsTraceSpan(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	parser.ParseTokens(ctx, lexer.New([]byte("a)"), source.NewLoc("t")).All(), parser.Options{})

	events := ring.Snapshot()
	if len(events) != 2 || events[1].Name != "parse" {
		t.Fatalf("events = %+v", events)
	}
	if events[1].Extra["errors"] != "1" || events[1].Extra["tokens"] != "2" {
		t.Fatalf("extra = %v", events[1].Extra)
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 100000
	src := strings.Repeat("a(", depth) + strings.Repeat(")", depth)
	got, diags := parser.Parse([]byte(src), "deep")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags[:1])
	}
	if s := ast.Collect(got); s.Elements != depth {
		t.Fatalf("elements = %d", s.Elements)
	}
}
