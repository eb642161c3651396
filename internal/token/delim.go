package token

import "fmt"

// Dir is the direction of a delimiter.
type Dir uint8

const (
	// Open is '(', '[' or '{'.
	Open Dir = iota
	// Close is ')', ']' or '}'.
	Close
)

func (d Dir) String() string {
	if d == Close {
		return "close"
	}
	return "open"
}

// DelimKind selects the bracket family of an element.
type DelimKind uint8

const (
	// Parenthesis is ().
	Parenthesis DelimKind = iota
	// Bracket is [].
	Bracket
	// Brace is {}.
	Brace
)

func (k DelimKind) String() string {
	switch k {
	case Parenthesis:
		return "parenthesis"
	case Bracket:
		return "bracket"
	case Brace:
		return "brace"
	default:
		return fmt.Sprintf("DelimKind(%d)", uint8(k))
	}
}

// Opener returns the opening byte of the kind.
func (k DelimKind) Opener() byte { return Delim{Dir: Open, Kind: k}.Byte() }

// Closer returns the closing byte of the kind.
func (k DelimKind) Closer() byte { return Delim{Dir: Close, Kind: k}.Byte() }

// ParseDelimKind is the inverse of DelimKind.String.
func ParseDelimKind(s string) (DelimKind, error) {
	switch s {
	case "parenthesis":
		return Parenthesis, nil
	case "bracket":
		return Bracket, nil
	case "brace":
		return Brace, nil
	}
	return 0, fmt.Errorf("unknown delimiter kind %q", s)
}

// Delim is one of the six delimiter characters.
type Delim struct {
	Dir  Dir
	Kind DelimKind
}

// Not flips the direction and keeps the kind.
func (d Delim) Not() Delim {
	if d.Dir == Open {
		d.Dir = Close
	} else {
		d.Dir = Open
	}
	return d
}

var delimBytes = [2][3]byte{
	{'(', '[', '{'},
	{')', ']', '}'},
}

// Byte returns the character of the delimiter.
func (d Delim) Byte() byte {
	return delimBytes[d.Dir&1][d.Kind%3]
}

func (d Delim) String() string {
	return string(d.Byte())
}

// DelimFromByte maps a delimiter character to its Delim.
func DelimFromByte(b byte) (Delim, bool) {
	switch b {
	case '(':
		return Delim{Open, Parenthesis}, true
	case ')':
		return Delim{Close, Parenthesis}, true
	case '[':
		return Delim{Open, Bracket}, true
	case ']':
		return Delim{Close, Bracket}, true
	case '{':
		return Delim{Open, Brace}, true
	case '}':
		return Delim{Close, Brace}, true
	}
	return Delim{}, false
}

// IsDelim reports whether b is one of ()[]{}.
func IsDelim(b byte) bool {
	_, ok := DelimFromByte(b)
	return ok
}
