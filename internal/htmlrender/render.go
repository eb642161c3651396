// Package htmlrender turns a snep forest into HTML-ish text.
//
// Policy per element:
//   - literal (`\name`): children only;
//   - empty name or a name ending in '=': name, delimiters and children as written;
//   - "+": the children of each child element, other children dropped;
//   - anything else: <name>children</name>.
//
// Text is written verbatim. Nothing is escaped or validated.
package htmlrender

import (
	"bytes"
	"io"
	"strings"

	"snep/internal/ast"
)

// SpliceName is the element name whose child elements are unwrapped.
const SpliceName = "+"

type frame struct {
	rest   []ast.Node
	close  string
	splice bool // только дочерние элементы, текст пропускается
}

// Render returns the HTML for nodes.
func Render(nodes []ast.Node) []byte {
	var buf bytes.Buffer
	render(&buf, nodes)
	return buf.Bytes()
}

// Write renders nodes into w.
func Write(w io.Writer, nodes []ast.Node) error {
	var buf bytes.Buffer
	render(&buf, nodes)
	_, err := buf.WriteTo(w)
	return err
}

func render(buf *bytes.Buffer, nodes []ast.Node) {
	stack := []frame{{rest: nodes}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.rest) == 0 {
			buf.WriteString(top.close)
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.rest[0]
		top.rest = top.rest[1:]

		if top.splice {
			if e, ok := n.(*ast.Element); ok {
				stack = append(stack, frame{rest: e.Children})
			}
			continue
		}

		switch n := n.(type) {
		case ast.Text:
			buf.WriteString(string(n))
		case *ast.Element:
			stack = append(stack, open(buf, n))
		}
	}
}

// open writes the start of e and returns the frame for its children.
func open(buf *bytes.Buffer, e *ast.Element) frame {
	switch {
	case e.IsLiteral():
		return frame{rest: e.Children}
	case e.Name == "" || strings.HasSuffix(e.Name, "="):
		buf.WriteString(e.Name)
		buf.WriteByte(e.Opener())
		return frame{rest: e.Children, close: string(e.Closer())}
	case e.Name == SpliceName:
		return frame{rest: e.Children, splice: true}
	default:
		buf.WriteByte('<')
		buf.WriteString(e.Name)
		buf.WriteByte('>')
		return frame{rest: e.Children, close: "</" + e.Name + ">"}
	}
}
