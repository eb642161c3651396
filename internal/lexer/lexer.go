// Package lexer splits snep text into Chunk and Tag tokens.
//
// The lexer never fails: every byte of the input ends up in a token,
// except single dividers that separate a chunk from the following tag.
package lexer

import (
	"bytes"
	"iter"

	"snep/internal/source"
	"snep/internal/token"
)

const delimChars = "()[]{}"

type Lexer struct {
	cursor  Cursor
	pending *token.Token // тег, найденный вместе с предыдущим chunk
	done    bool
}

// New creates a lexer over content; start is the location of its first byte.
func New(content []byte, start source.Loc) *Lexer {
	return &Lexer{cursor: NewCursor(content, start)}
}

// NewFile creates a lexer over a registered source file.
func NewFile(file *source.File) *Lexer {
	return New(file.Content, file.StartLoc())
}

// Next returns the next token. After the input is consumed it returns EOF forever.
func (lx *Lexer) Next() token.Token {
	if lx.pending != nil {
		tok := *lx.pending
		lx.pending = nil
		return tok
	}
	if lx.done {
		return token.Token{Kind: token.EOF, Loc: lx.cursor.Loc}
	}

	rest := lx.cursor.Rest()
	i := bytes.IndexAny(rest, delimChars)
	if i < 0 {
		lx.done = true
		if len(rest) == 0 {
			return token.Token{Kind: token.EOF, Loc: lx.cursor.Loc}
		}
		tok := token.Token{Kind: token.Chunk, Loc: lx.cursor.Loc, Text: string(rest)}
		lx.cursor.Skip(len(rest))
		return tok
	}

	pre := rest[:i]
	j := wordStart(pre)
	word := pre[j:]
	chunk := pre[:j]
	// один разделитель перед именем не попадает в текст
	if n := len(chunk); n > 0 && chunk[n-1] == token.Divider {
		chunk = chunk[:n-1]
	}
	delim, _ := token.DelimFromByte(rest[i])

	chunkTok := token.Token{Kind: token.Chunk, Loc: lx.cursor.Loc, Text: string(chunk)}
	lx.cursor.Skip(j)
	tagTok := token.Token{Kind: token.Tag, Loc: lx.cursor.Loc, Text: string(word), Delim: delim}
	lx.cursor.Skip(len(word) + 1)

	lx.pending = &tagTok
	return chunkTok
}

// All yields every token up to, but not including, EOF.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

// Loc returns the location of the next unread byte.
func (lx *Lexer) Loc() source.Loc {
	return lx.cursor.Loc
}

// wordStart returns where the trailing name of pre begins: the longest run of
// word characters, extended by one escaper that immediately precedes it.
func wordStart(pre []byte) int {
	j := len(pre)
	for j > 0 {
		c := pre[j-1]
		if c == token.Escaper {
			j--
			break
		}
		if !token.IsWordChar(c) {
			break
		}
		j--
	}
	return j
}
