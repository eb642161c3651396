// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"bytes"
	"fmt"

	"snep/internal/ast"
	"snep/internal/format"
	"snep/internal/parser"
	"snep/internal/source"
	"snep/internal/token"
)

// CheckTree verifies the shape of a parsed forest:
// 1) every node is Text or a non-nil *Element with a known delimiter kind
// 2) element names are an optional escaper followed by word characters
// 3) a literal element holds only text, escape markers and same-name elements
func CheckTree(nodes []ast.Node) error {
	var err error
	ast.Inspect(nodes, func(n ast.Node, depth int) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case ast.Text:
		case *ast.Element:
			if n == nil {
				err = fmt.Errorf("nil element at depth %d", depth)
				return false
			}
			if n.Delim > token.Brace {
				err = fmt.Errorf("element %q: bad delimiter kind %d", n.Name, n.Delim)
				return false
			}
			if !validName(n.Name) {
				err = fmt.Errorf("element %q: invalid name", n.Name)
				return false
			}
			if n.IsLiteral() {
				err = checkLiteralChildren(n)
			}
		default:
			err = fmt.Errorf("unexpected node %T at depth %d", n, depth)
		}
		return err == nil
	})
	return err
}

func validName(name string) bool {
	for i := 0; i < len(name); i++ {
		if i == 0 && name[i] == token.Escaper {
			continue
		}
		if !token.IsWordChar(name[i]) {
			return false
		}
	}
	return true
}

func checkLiteralChildren(e *ast.Element) error {
	for _, c := range e.Children {
		child, ok := c.(*ast.Element)
		if !ok || child.Name == e.Name || ast.IsEscapeMarker(child) {
			continue
		}
		return fmt.Errorf("literal %q contains element %q", e.Name, child.Name)
	}
	return nil
}

// CheckLocations verifies that every located element points at its name
// followed by its opener in src.
func CheckLocations(nodes []ast.Node, src []byte) error {
	lines := lineStarts(src)
	var err error
	ast.Inspect(nodes, func(n ast.Node, _ int) bool {
		e, ok := n.(*ast.Element)
		if !ok || err != nil || !e.Loc.Known() {
			return err == nil
		}
		off, ok := offsetOf(lines, e.Loc, len(src))
		if !ok {
			err = fmt.Errorf("element %q: location %s outside input", e.Name, e.Loc)
			return false
		}
		want := append([]byte(e.Name), e.Opener())
		if !bytes.HasPrefix(src[off:], want) {
			err = fmt.Errorf("element %q at %s: input has %q", e.Name, e.Loc, clip(src[off:], len(want)))
			return false
		}
		return true
	})
	return err
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func offsetOf(lines []int, loc source.Loc, size int) (int, bool) {
	if int(loc.Row) >= len(lines) {
		return 0, false
	}
	off := lines[loc.Row] + int(loc.Col)
	return off, off <= size
}

func clip(b []byte, n int) []byte {
	return b[:min(n, len(b))]
}

// CheckIdempotent verifies render(parse(render(parse(src)))) == render(parse(src)).
func CheckIdempotent(src []byte) error {
	first := RenderParse(src)
	second := RenderParse(first)
	if !bytes.Equal(first, second) {
		return fmt.Errorf("render is not idempotent:\n input: %q\n first: %q\nsecond: %q", src, first, second)
	}
	return nil
}

// CheckRoundTrip verifies that a clean rendering reparses into the same
// forest. Inputs with diagnostics are skipped.
func CheckRoundTrip(src []byte) error {
	nodes, diags := parser.Parse(src, "")
	if len(diags) > 0 {
		return nil
	}
	out := format.Render(nodes)
	again, diags := parser.Parse(out, "")
	if len(diags) > 0 {
		return fmt.Errorf("rendering %q of clean input %q has diagnostics: %v", out, src, diags)
	}
	if !ast.Equal(nodes, again) {
		return fmt.Errorf("forest changed after round trip of %q (rendered %q)", src, out)
	}
	return nil
}

// RenderParse parses src and renders the forest back.
func RenderParse(src []byte) []byte {
	nodes, _ := parser.Parse(src, "")
	return format.Render(nodes)
}
