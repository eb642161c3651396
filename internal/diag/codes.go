package diag

import "fmt"

// Code identifies a kind of finding. The thousands digit selects the family.
type Code uint16

const (
	UnknownCode Code = 0

	// структура разметки
	SynInfo             Code = 2000
	SynMismatchedCloser Code = 2001
	SynUnmatchedCloser  Code = 2002
	SynUnclosedElement  Code = 2003

	// ввод-вывод
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
)

var codeFamilies = map[Code]string{
	2: "SYN",
	4: "IO",
}

var codeTitles = map[Code]string{
	UnknownCode:         "Unknown error",
	SynInfo:             "Syntax information",
	SynMismatchedCloser: "Closing delimiter does not match the open element",
	SynUnmatchedCloser:  "Closing delimiter without an open element",
	SynUnclosedElement:  "Element was never closed",
	IOLoadFileError:     "I/O load file error",
	IOWriteFileError:    "I/O write file error",
}

// ID is the stable textual form, e.g. "SYN2001". Codes outside a known
// family render as "E0000".
func (c Code) ID() string {
	if prefix, ok := codeFamilies[c/1000]; ok {
		return fmt.Sprintf("%s%04d", prefix, uint16(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return "[" + c.ID() + "]: " + c.Title()
}
