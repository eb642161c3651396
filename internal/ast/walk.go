package ast

// Visitor is called for every node in pre-order. Returning false skips the
// children of an element.
type Visitor func(n Node, depth int) bool

type walkFrame struct {
	nodes []Node
	depth int
}

// Inspect walks the forest in document order without recursion.
func Inspect(nodes []Node, visit Visitor) {
	stack := []walkFrame{{nodes: nodes}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.nodes) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.nodes[0]
		top.nodes = top.nodes[1:]
		depth := top.depth
		if !visit(n, depth) {
			continue
		}
		if e, ok := n.(*Element); ok && len(e.Children) > 0 {
			stack = append(stack, walkFrame{nodes: e.Children, depth: depth + 1})
		}
	}
}

// Stats summarises a forest.
type Stats struct {
	Texts    int
	Elements int
	Literals int
	MaxDepth int
	TextLen  int
}

// Collect computes Stats for nodes.
func Collect(nodes []Node) Stats {
	var s Stats
	Inspect(nodes, func(n Node, depth int) bool {
		s.MaxDepth = max(s.MaxDepth, depth+1)
		switch n := n.(type) {
		case Text:
			s.Texts++
			s.TextLen += len(n)
		case *Element:
			s.Elements++
			if n.IsLiteral() {
				s.Literals++
			}
		}
		return true
	})
	return s
}

// Equal compares two forests structurally. Locations are ignored.
func Equal(a, b []Node) bool {
	type pair struct{ a, b []Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.a) != len(p.b) {
			return false
		}
		for i := range p.a {
			switch x := p.a[i].(type) {
			case Text:
				y, ok := p.b[i].(Text)
				if !ok || x != y {
					return false
				}
			case *Element:
				y, ok := p.b[i].(*Element)
				if !ok || x.Name != y.Name || x.Delim != y.Delim {
					return false
				}
				stack = append(stack, pair{x.Children, y.Children})
			default:
				return false
			}
		}
	}
	return true
}
