package format

import (
	"io"

	"snep/internal/ast"
	"snep/internal/token"
)

// State is the one bit of context the writer carries between nodes.
type State uint8

const (
	// Clean: the next element may be written directly.
	Clean State = iota
	// Sticky: the last text ended in a word character or an escaper, so an
	// element written now would glue its name onto it without a divider.
	Sticky
)

func (s State) String() string {
	if s == Sticky {
		return "sticky"
	}
	return "clean"
}

// Writer accumulates rendered output.
type Writer struct {
	buf   []byte
	state State
}

// NewWriter creates a writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, max(sizeHint, 0))}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// State returns the current divider state.
func (w *Writer) State() State {
	return w.state
}

// Reset clears the output and the state.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.state = Clean
}

// WriteTo implements io.WriterTo.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.buf)
	return int64(n), err
}

// Text writes t verbatim. Empty text leaves the state as it was: it adds no
// character that could separate a preceding word from the next element.
func (w *Writer) Text(t ast.Text) {
	n := len(t)
	if n == 0 {
		return
	}
	w.buf = append(w.buf, t...)
	// завершающий '\' тоже приклеился бы к следующему имени
	if last := t[n-1]; token.IsWordChar(last) || last == token.Escaper {
		w.state = Sticky
	} else {
		w.state = Clean
	}
}

func (w *Writer) openElement(e *ast.Element) {
	if w.state == Sticky {
		w.buf = append(w.buf, token.Divider)
	}
	w.buf = append(w.buf, e.Name...)
	w.buf = append(w.buf, e.Opener())
}

func (w *Writer) closeElement(e *ast.Element) {
	// литерал закрывается только повтором своего имени
	if e.IsLiteral() {
		w.buf = append(w.buf, e.Name...)
	}
	w.buf = append(w.buf, e.Closer())
	w.state = Clean
}

type renderFrame struct {
	elem *ast.Element // nil для корня
	rest []ast.Node
}

// Nodes writes a forest in document order without recursion.
func (w *Writer) Nodes(nodes []ast.Node) {
	stack := []renderFrame{{rest: nodes}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.rest) == 0 {
			if top.elem != nil {
				w.closeElement(top.elem)
			}
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.rest[0]
		top.rest = top.rest[1:]
		switch n := n.(type) {
		case ast.Text:
			w.Text(n)
		case *ast.Element:
			w.openElement(n)
			stack = append(stack, renderFrame{elem: n, rest: n.Children})
		}
	}
}

// Render returns the text of a forest, starting from the Clean state.
func Render(nodes []ast.Node) []byte {
	w := NewWriter(estimate(nodes))
	w.Nodes(nodes)
	return w.Bytes()
}

// Write renders nodes into out.
func Write(out io.Writer, nodes []ast.Node) error {
	w := NewWriter(estimate(nodes))
	w.Nodes(nodes)
	_, err := w.WriteTo(out)
	return err
}

func estimate(nodes []ast.Node) int {
	s := ast.Collect(nodes)
	return s.TextLen + s.Elements*4
}
