package driver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/afero"

	"snep/internal/lexer"
	"snep/internal/source"
	"snep/internal/token"
	"snep/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // включая завершающий EOF
}

// Tokenize loads path and lexes it to the end.
func Tokenize(ctx context.Context, fsys afero.Fs, path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(fileID)
	return &TokenizeResult{FileSet: fs, File: file, Tokens: TokenizeFile(ctx, file)}, nil
}

// TokenizeFile lexes a registered file; the last token is EOF.
func TokenizeFile(ctx context.Context, file *source.File) []token.Token {
	span, _ := trace.StartSpan(ctx, trace.ScopeFile, "tokenize")
	lx := lexer.NewFile(file)
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	span.WithExtra("file", file.Path).WithExtra("tokens", strconv.Itoa(len(tokens))).End("")
	return tokens
}
