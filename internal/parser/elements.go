package parser

import (
	"fmt"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/token"
)

func (p *Parser) open(tok token.Token) {
	name := tok.Text
	if p.opts.Names != nil {
		name = p.opts.Names.Canonical(name)
	}
	p.stack = append(p.stack, p.cur)
	p.cur = &frame{
		name: name,
		kind: tok.Delim.Kind,
		loc:  tok.Loc,
	}
}

func (p *Parser) close(tok token.Token) {
	if !p.cur.literal(p.root()) {
		// слово перед закрывающей скобкой — обычный текст
		p.appendNode(ast.Text(tok.Text))
	}

	closer := tok.Delim.Byte()
	switch {
	case tok.Delim.Kind != p.cur.kind:
		// неявный корень открыт круглой скобкой, поэтому ']' и '}' на верхнем
		// уровне тоже считаются несовпадением
		d := diag.NewError(diag.SynMismatchedCloser, tok.Loc,
			fmt.Sprintf("'%c' doesn't close '%s%c' at %s",
				closer, diag.LossyString(p.cur.name), p.cur.kind.Opener(), p.cur.loc))
		if p.cur.loc.Known() {
			d = d.WithNote(p.cur.loc, "element opened here")
		}
		p.report(d)
		// элемент остаётся открытым, скобка превращается в экранированный открыватель
		p.appendNode(ast.EscapeMarker(p.cur.kind))

	case p.root():
		p.report(diag.NewError(diag.SynUnmatchedCloser, tok.Loc,
			fmt.Sprintf("'%c' doesn't close anything", closer)))
		p.appendNode(ast.Text(string(closer)))

	default:
		done := p.cur
		p.cur = p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.appendNode(&ast.Element{
			Name:     done.name,
			Delim:    done.kind,
			Children: done.children,
			Loc:      done.loc,
		})
	}
}

// finish melts every element that is still open and returns the root children.
func (p *Parser) finish() []ast.Node {
	if p.root() {
		return p.cur.children
	}

	open := make([]*frame, 0, len(p.stack))
	open = append(open, p.stack[1:]...)
	open = append(open, p.cur)
	outer := open[0]
	p.report(diag.NewError(diag.SynUnclosedElement, outer.loc,
		fmt.Sprintf("'%s%c' was never closed", diag.LossyString(outer.name), outer.kind.Opener())))

	nodes := p.stack[0].children
	for _, f := range open {
		nodes = append(nodes, ast.Text(f.name), ast.EscapeMarker(f.kind))
		nodes = append(nodes, f.children...)
	}
	p.stack = nil
	p.cur = newRoot()
	return nodes
}
