// Package token defines delimiters, character classes and tokens of the snep notation.
// Invariants:
//   - A Tag token always carries one of the six delimiter bytes ()[]{}.
//   - Token.Text owns its bytes: it never aliases the lexer input.
//   - Chunk text may be empty; an empty chunk still occupies a place in the stream.
package token
