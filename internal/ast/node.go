// Package ast holds the forest produced by the parser.
//
// A forest is a []Node; every Node is either Text or *Element. Nodes are
// built once by the parser and treated as read-only afterwards.
package ast

import (
	"strings"

	"snep/internal/source"
	"snep/internal/token"
)

// LiteralPrefix marks an element name whose body is not parsed.
const LiteralPrefix = `\`

// Node is Text or *Element.
type Node interface {
	isNode()
}

// Text is a run of plain characters.
type Text string

func (Text) isNode() {}

// Element is a named, delimited group of child nodes.
type Element struct {
	Name     string
	Delim    token.DelimKind
	Children []Node
	Loc      source.Loc // начало имени; пустой File у синтезированных узлов
}

func (*Element) isNode() {}

// IsLiteral reports whether the element's body is kept verbatim up to the
// matching closer that repeats its name.
func (e *Element) IsLiteral() bool {
	return strings.HasPrefix(e.Name, LiteralPrefix)
}

// Opener returns the opening delimiter byte of the element.
func (e *Element) Opener() byte { return e.Delim.Opener() }

// Closer returns the closing delimiter byte of the element.
func (e *Element) Closer() byte { return e.Delim.Closer() }

// EscapeMarker returns the literal element that renders as the bare opener of
// kind, `\(` + opener + `\)`. Recovery uses it so that re-parsing the output
// cannot reopen an element.
func EscapeMarker(kind token.DelimKind) *Element {
	return &Element{
		Name:     LiteralPrefix,
		Delim:    token.Parenthesis,
		Children: []Node{Text(string(kind.Opener()))},
	}
}

// IsEscapeMarker reports whether n has the shape produced by EscapeMarker.
func IsEscapeMarker(n Node) bool {
	e, ok := n.(*Element)
	if !ok || e.Name != LiteralPrefix || e.Delim != token.Parenthesis || len(e.Children) != 1 {
		return false
	}
	t, ok := e.Children[0].(Text)
	if !ok || len(t) != 1 {
		return false
	}
	d, ok := token.DelimFromByte(t[0])
	return ok && d.Dir == token.Open
}
