package ast

import (
	"errors"
	"fmt"

	"snep/internal/source"
	"snep/internal/token"
)

// NodeID indexes Flat.Nodes (1-based).
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

type FlatKind uint8

const (
	FlatText FlatKind = iota
	FlatElement
)

// FlatNode is one record of the flat encoding. Children of an element are
// Flat.Children[First : First+Count].
type FlatNode struct {
	Kind  FlatKind        `msgpack:"k"`
	Text  string          `msgpack:"t"` // текст или имя элемента
	Delim token.DelimKind `msgpack:"d"`
	Loc   source.Loc      `msgpack:"l"`
	First uint32          `msgpack:"f"`
	Count uint32          `msgpack:"n"`
}

// Flat is an index-based encoding of a forest, suitable for serialisation.
// Every child has a larger NodeID than its parent.
type Flat struct {
	Nodes    []FlatNode `msgpack:"nodes"`
	Children []NodeID   `msgpack:"children"`
	Roots    []NodeID   `msgpack:"roots"`
}

var ErrBadFlat = errors.New("malformed flat forest")

type flatPending struct {
	id   NodeID
	elem *Element
}

// Flatten encodes nodes breadth-first.
func Flatten(nodes []Node) Flat {
	arena := NewArena[FlatNode](uint(len(nodes)))
	var children []NodeID
	var queue []flatPending

	alloc := func(n Node) NodeID {
		switch n := n.(type) {
		case Text:
			return NodeID(arena.Allocate(FlatNode{Kind: FlatText, Text: string(n)}))
		case *Element:
			id := NodeID(arena.Allocate(FlatNode{Kind: FlatElement, Text: n.Name, Delim: n.Delim, Loc: n.Loc}))
			queue = append(queue, flatPending{id: id, elem: n})
			return id
		}
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}

	roots := make([]NodeID, 0, len(nodes))
	for _, n := range nodes {
		roots = append(roots, alloc(n))
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		first := uint32(len(children))
		for _, c := range p.elem.Children {
			children = append(children, alloc(c))
		}
		rec := arena.Get(uint32(p.id))
		rec.First = first
		rec.Count = uint32(len(children)) - first
	}

	return Flat{Nodes: arena.Slice(), Children: children, Roots: roots}
}

// Expand rebuilds the forest, validating every index.
func (f Flat) Expand() ([]Node, error) {
	total := len(f.Nodes)
	built := make([]Node, total)
	// дети всегда имеют больший id, поэтому строим с конца
	for i := total - 1; i >= 0; i-- {
		rec := f.Nodes[i]
		switch rec.Kind {
		case FlatText:
			built[i] = Text(rec.Text)
		case FlatElement:
			end := uint64(rec.First) + uint64(rec.Count)
			if end > uint64(len(f.Children)) {
				return nil, fmt.Errorf("%w: node %d children out of range", ErrBadFlat, i+1)
			}
			kids := make([]Node, 0, rec.Count)
			for _, cid := range f.Children[rec.First:end] {
				if int(cid) <= i+1 || int(cid) > total {
					return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrBadFlat, i+1, cid)
				}
				kids = append(kids, built[cid-1])
			}
			built[i] = &Element{Name: rec.Text, Delim: rec.Delim, Children: kids, Loc: rec.Loc}
		default:
			return nil, fmt.Errorf("%w: node %d has unknown kind %d", ErrBadFlat, i+1, rec.Kind)
		}
	}

	out := make([]Node, 0, len(f.Roots))
	for _, id := range f.Roots {
		if !id.IsValid() || int(id) > total {
			return nil, fmt.Errorf("%w: invalid root %d", ErrBadFlat, id)
		}
		out = append(out, built[id-1])
	}
	return out, nil
}
