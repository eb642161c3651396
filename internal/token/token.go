package token

import (
	"fmt"

	"snep/internal/source"
)

// Kind is the category of a token.
type Kind uint8

const (
	// Chunk is plain text between tags.
	Chunk Kind = iota
	// Tag is a word immediately followed by a delimiter.
	Tag
	// EOF marks the end of input.
	EOF
)

func (k Kind) String() string {
	switch k {
	case Chunk:
		return "Chunk"
	case Tag:
		return "Tag"
	case EOF:
		return "EOF"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token is a single lexer output item.
type Token struct {
	Kind  Kind
	Loc   source.Loc
	Text  string // содержимое chunk или имя тега
	Delim Delim  // только для Tag
}

// IsOpen reports whether the token is an opening tag.
func (t Token) IsOpen() bool { return t.Kind == Tag && t.Delim.Dir == Open }

// IsClose reports whether the token is a closing tag.
func (t Token) IsClose() bool { return t.Kind == Tag && t.Delim.Dir == Close }

func (t Token) String() string {
	switch t.Kind {
	case Tag:
		return fmt.Sprintf("%s %s %q%s", t.Loc, t.Kind, t.Text, t.Delim)
	case Chunk:
		return fmt.Sprintf("%s %s %q", t.Loc, t.Kind, t.Text)
	default:
		return fmt.Sprintf("%s %s", t.Loc, t.Kind)
	}
}
