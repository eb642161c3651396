package lexer_test

import (
	"slices"
	"testing"

	"snep/internal/lexer"
	"snep/internal/source"
	"snep/internal/token"
)

const testFile = "test.snep"

func at(row, col uint32) source.Loc {
	return source.Loc{File: testFile, Row: row, Col: col}
}

func chunk(text string, loc source.Loc) token.Token {
	return token.Token{Kind: token.Chunk, Loc: loc, Text: text}
}

func tag(word string, c byte, loc source.Loc) token.Token {
	d, ok := token.DelimFromByte(c)
	if !ok {
		panic("not a delimiter")
	}
	return token.Token{Kind: token.Tag, Loc: loc, Text: word, Delim: d}
}

// collectAllTokens собирает все токены до EOF включительно
func collectAllTokens(input string) []token.Token {
	lx := lexer.New([]byte(input), source.NewLoc(testFile))
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
		eof   source.Loc
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
			eof:   at(0, 0),
		},
		{
			name:  "plain text",
			input: "plain",
			want:  []token.Token{chunk("plain", at(0, 0))},
			eof:   at(0, 5),
		},
		{
			name:  "element between words",
			input: "a(b)c",
			want: []token.Token{
				chunk("", at(0, 0)), tag("a", '(', at(0, 0)),
				chunk("", at(0, 2)), tag("b", ')', at(0, 2)),
				chunk("c", at(0, 4)),
			},
			eof: at(0, 5),
		},
		{
			name:  "stray closer",
			input: "x)",
			want:  []token.Token{chunk("", at(0, 0)), tag("x", ')', at(0, 0))},
			eof:   at(0, 2),
		},
		{
			name:  "divider is dropped",
			input: "hello world|x[y]",
			want: []token.Token{
				chunk("hello world", at(0, 0)), tag("x", '[', at(0, 12)),
				chunk("", at(0, 14)), tag("y", ']', at(0, 14)),
			},
			eof: at(0, 16),
		},
		{
			name:  "only one divider is dropped",
			input: "a||b{",
			want:  []token.Token{chunk("a|", at(0, 0)), tag("b", '{', at(0, 3))},
			eof:   at(0, 5),
		},
		{
			name:  "divider before empty name",
			input: "a |(",
			want:  []token.Token{chunk("a ", at(0, 0)), tag("", '(', at(0, 3))},
			eof:   at(0, 4),
		},
		{
			name:  "bare delimiter",
			input: "(",
			want:  []token.Token{chunk("", at(0, 0)), tag("", '(', at(0, 0))},
			eof:   at(0, 1),
		},
		{
			name:  "literal fence",
			input: `\lit(a(b)\lit)`,
			want: []token.Token{
				chunk("", at(0, 0)), tag(`\lit`, '(', at(0, 0)),
				chunk("", at(0, 5)), tag("a", '(', at(0, 5)),
				chunk("", at(0, 7)), tag("b", ')', at(0, 7)),
				chunk("", at(0, 9)), tag(`\lit`, ')', at(0, 9)),
			},
			eof: at(0, 14),
		},
		{
			name:  "word scan stops after first escaper",
			input: `a\\b(`,
			want:  []token.Token{chunk(`a\`, at(0, 0)), tag(`\b`, '(', at(0, 2))},
			eof:   at(0, 5),
		},
		{
			name:  "escaper alone is a name",
			input: `x \(`,
			want:  []token.Token{chunk("x ", at(0, 0)), tag(`\`, '(', at(0, 2))},
			eof:   at(0, 4),
		},
		{
			name:  "newline before tag",
			input: "one\ntwo(x)",
			want: []token.Token{
				chunk("one\n", at(0, 0)), tag("two", '(', at(1, 0)),
				chunk("", at(1, 4)), tag("x", ')', at(1, 4)),
			},
			eof: at(1, 6),
		},
		{
			name:  "tab ends word",
			input: "a\tb]",
			want:  []token.Token{chunk("a\t", at(0, 0)), tag("b", ']', at(0, 2))},
			eof:   at(0, 4),
		},
		{
			name:  "multibyte word",
			input: "жир(x)",
			want: []token.Token{
				chunk("", at(0, 0)), tag("жир", '(', at(0, 0)),
				chunk("", at(0, 7)), tag("x", ')', at(0, 7)),
			},
			eof: at(0, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectAllTokens(tt.input)
			eof := got[len(got)-1]
			got = got[:len(got)-1]

			if !slices.Equal(got, tt.want) {
				t.Fatalf("tokens mismatch\n got: %v\nwant: %v", got, tt.want)
			}
			if eof.Kind != token.EOF || eof.Loc != tt.eof {
				t.Errorf("EOF = %v, want at %v", eof, tt.eof)
			}
		})
	}
}

func TestNextAfterEOF(t *testing.T) {
	lx := lexer.New([]byte("a(b)"), source.NewLoc(testFile))
	for range lx.All() {
	}
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("call %d after end: got %v, want EOF", i, tok)
		}
	}
}

func TestAllStopsEarly(t *testing.T) {
	lx := lexer.New([]byte("a(b(c(d)))"), source.NewLoc(testFile))
	n := 0
	for range lx.All() {
		n++
		if n == 3 {
			break
		}
	}
	// прерванный цикл не теряет следующий токен
	if tok := lx.Next(); tok.Kind != token.Tag || tok.Text != "b" {
		t.Fatalf("expected tag b after early break, got %v", tok)
	}
}

// Все байты, кроме отброшенных разделителей, должны попасть в токены.
func TestTokensCoverInput(t *testing.T) {
	inputs := []string{
		"", "abc", "a(b)c", "x|y(z)", `\q(a|b(\q)`, "((]]}{", "a |b[c\n]d",
	}
	for _, input := range inputs {
		var rebuilt []byte
		dividers := 0
		for _, tok := range collectAllTokens(input) {
			switch tok.Kind {
			case token.Chunk:
				rebuilt = append(rebuilt, tok.Text...)
			case token.Tag:
				// имя тега не может начинаться с '|', значит это отброшенный разделитель
				if n := len(rebuilt); n < len(input) && input[n] == token.Divider {
					rebuilt = append(rebuilt, token.Divider)
					dividers++
				}
				rebuilt = append(rebuilt, tok.Text...)
				rebuilt = append(rebuilt, tok.Delim.Byte())
			}
		}
		if string(rebuilt) != input {
			t.Errorf("%q: rebuilt %q (%d dividers restored)", input, rebuilt, dividers)
		}
	}
}
