package diag

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Lossy decodes b as UTF-8, replacing invalid sequences with U+FFFD.
// Used for every piece of source text embedded into a message.
func Lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string([]rune(string(b)))
	}
	return string(out)
}

// LossyString is Lossy for text that is already held in a string.
func LossyString(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return Lossy([]byte(s))
}
