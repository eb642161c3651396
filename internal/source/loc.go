package source

import "strconv"

// Loc is a zero-based row/column position inside a named file.
// An empty File means the location is unknown.
// Columns count bytes, not runes.
type Loc struct {
	File string
	Row  uint32
	Col  uint32
}

// NewLoc returns the location of the first byte of the named file.
func NewLoc(file string) Loc {
	return Loc{File: file}
}

// Known reports whether the location refers to a named file.
func (l Loc) Known() bool {
	return l.File != ""
}

// Advance returns the location that follows consuming b.
func (l Loc) Advance(b byte) Loc {
	if b == '\n' {
		l.Row++
		l.Col = 0
		return l
	}
	l.Col++
	return l
}

// AdvanceBytes folds Advance over every byte of p.
func (l Loc) AdvanceBytes(p []byte) Loc {
	for _, b := range p {
		l = l.Advance(b)
	}
	return l
}

// AdvanceString is AdvanceBytes for strings.
func (l Loc) AdvanceString(s string) Loc {
	for i := 0; i < len(s); i++ {
		l = l.Advance(s[i])
	}
	return l
}

// LineCol converts the location into a 1-based position.
func (l Loc) LineCol() LineCol {
	return LineCol{Line: l.Row + 1, Col: l.Col + 1}
}

// String renders "file:row+1:col+1", or "<unknown>" without a file name.
func (l Loc) String() string {
	if !l.Known() {
		return "<unknown>"
	}
	return l.File + ":" + strconv.FormatUint(uint64(l.Row)+1, 10) + ":" + strconv.FormatUint(uint64(l.Col)+1, 10)
}

// Less orders locations by file, row and column.
func (l Loc) Less(other Loc) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Row != other.Row {
		return l.Row < other.Row
	}
	return l.Col < other.Col
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
