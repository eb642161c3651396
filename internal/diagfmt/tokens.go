package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"snep/internal/token"
)

type TokenOutput struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Delim string `json:"delim,omitempty"`
	File  string `json:"file,omitempty"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		lc := tok.Loc.LineCol()
		if _, err := fmt.Fprintf(w, "%3d: %-5s %q", i+1, tok.Kind, tok.Text); err != nil {
			return err
		}
		if tok.Kind == token.Tag {
			fmt.Fprintf(w, " %s %s", tok.Delim.Dir, tok.Delim)
		}
		fmt.Fprintf(w, " at %d:%d\n", lc.Line, lc.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		lc := tok.Loc.LineCol()
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			File: tok.Loc.File,
			Line: lc.Line,
			Col:  lc.Col,
		}
		if tok.Kind == token.Tag {
			out.Delim = tok.Delim.String()
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
