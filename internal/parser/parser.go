// Package parser builds the snep forest from a token stream.
//
// The builder keeps open elements on an explicit stack, so nesting depth is
// bounded only by memory. Parsing is total: structural problems are reported
// as diagnostics and recovered from, and the returned forest never contains
// an element that was not closed.
package parser

import (
	"context"
	"iter"
	"strconv"
	"strings"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/lexer"
	"snep/internal/source"
	"snep/internal/token"
	"snep/internal/trace"
)

type Options struct {
	MaxErrors     uint // 0 — без ограничения
	CurrentErrors uint
	Reporter      diag.Reporter
	// Names, если задан, хранит одну копию каждого имени элемента
	Names *source.Interner
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Nodes  []ast.Node
	Errors uint // сколько структурных ошибок встретилось, включая не отправленные
	Tokens int
}

// frame — элемент, который ещё не закрыт
type frame struct {
	name     string
	kind     token.DelimKind
	children []ast.Node
	loc      source.Loc
}

// newRoot returns the implicit root: no name, unknown location, opened by '('.
func newRoot() *frame {
	return &frame{kind: token.Parenthesis}
}

// literal is evaluated on every token; the implicit root is never literal.
func (f *frame) literal(root bool) bool {
	return !root && strings.HasPrefix(f.name, ast.LiteralPrefix)
}

// Parser — состояние построителя дерева на один вход
type Parser struct {
	stack  []*frame // открытые предки cur; stack[0] — неявный корень
	cur    *frame
	opts   Options
	errors uint
	tokens int
}

func newParser(opts Options) *Parser {
	return &Parser{
		cur:  newRoot(),
		opts: opts,
	}
}

// ParseTokens consumes tokens until the sequence ends and returns the forest.
func ParseTokens(ctx context.Context, tokens iter.Seq[token.Token], opts Options) Result {
	span, _ := trace.StartSpan(ctx, trace.ScopePass, "parse")
	p := newParser(opts)
	for tok := range tokens {
		p.consume(tok)
	}
	nodes := p.finish()
	span.WithExtra("tokens", strconv.Itoa(p.tokens)).
		WithExtra("errors", strconv.FormatUint(uint64(p.errors), 10)).
		End("")
	return Result{Nodes: nodes, Errors: p.errors, Tokens: p.tokens}
}

// ParseFile lexes and parses a registered source file.
func ParseFile(ctx context.Context, file *source.File, opts Options) Result {
	return ParseTokens(ctx, lexer.NewFile(file).All(), opts)
}

// Parse is the plain entry point: it returns the forest and the diagnostics
// in "<loc>: <message>" form, in the order they were found.
func Parse(text []byte, sourceName string) ([]ast.Node, []string) {
	bag := diag.NewBag(0)
	res := ParseTokens(
		context.Background(),
		lexer.New(text, source.NewLoc(sourceName)).All(),
		Options{Reporter: diag.BagReporter{Bag: bag}},
	)
	return res.Nodes, bag.Strings()
}

func (p *Parser) root() bool {
	return len(p.stack) == 0
}

func (p *Parser) appendNode(n ast.Node) {
	p.cur.children = append(p.cur.children, n)
}

func (p *Parser) consume(tok token.Token) {
	p.tokens++
	switch tok.Kind {
	case token.Chunk:
		p.appendNode(ast.Text(tok.Text))
	case token.Tag:
		// внутри литерала чужие теги — просто текст
		if p.cur.literal(p.root()) && tok.Text != p.cur.name {
			p.appendNode(ast.Text(tok.Text))
			p.appendNode(ast.Text(tok.Delim.String()))
			return
		}
		if tok.Delim.Dir == token.Open {
			p.open(tok)
			return
		}
		p.close(tok)
	}
}
