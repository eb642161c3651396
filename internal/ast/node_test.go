package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snep/internal/ast"
	"snep/internal/token"
)

func TestIsLiteral(t *testing.T) {
	t.Parallel()
	assert.True(t, (&ast.Element{Name: `\code`}).IsLiteral())
	assert.True(t, (&ast.Element{Name: `\`}).IsLiteral())
	assert.False(t, (&ast.Element{Name: `code\`}).IsLiteral())
	assert.False(t, (&ast.Element{Name: ""}).IsLiteral())
}

func TestEscapeMarker(t *testing.T) {
	t.Parallel()
	for _, kind := range []token.DelimKind{token.Parenthesis, token.Bracket, token.Brace} {
		m := ast.EscapeMarker(kind)
		assert.Equal(t, `\`, m.Name)
		assert.Equal(t, token.Parenthesis, m.Delim)
		assert.Equal(t, []ast.Node{ast.Text(string(kind.Opener()))}, m.Children)
		assert.False(t, m.Loc.Known())
		assert.True(t, m.IsLiteral())
		assert.True(t, ast.IsEscapeMarker(m))
	}

	assert.False(t, ast.IsEscapeMarker(ast.Text("(")))
	assert.False(t, ast.IsEscapeMarker(&ast.Element{Name: `\`, Children: []ast.Node{ast.Text(")")}}))
	assert.False(t, ast.IsEscapeMarker(&ast.Element{Name: `\x`, Children: []ast.Node{ast.Text("(")}}))
}
