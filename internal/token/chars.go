package token

const (
	// Escaper starts a literal name and ends a word scan.
	Escaper byte = '\\'
	// Divider separates text from a following element name.
	Divider byte = '|'
)

// IsSpace reports ASCII whitespace: space and 0x09..0x0D.
func IsSpace(b byte) bool {
	return b == ' ' || (b >= 0x09 && b <= 0x0D)
}

// IsWordChar reports whether b may be part of an element name.
// Non-ASCII bytes are word characters.
func IsWordChar(b byte) bool {
	return !IsSpace(b) && b != Divider && b != Escaper && !IsDelim(b)
}
