package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	// FileHasBOM marks content that starts with a UTF-8 byte order mark.
	// The mark is kept in Content: round trips must stay byte-exact.
	FileHasBOM
	// FileHasCRLF marks content with at least one \r\n line ending.
	FileHasCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// StartLoc returns the location of the first byte of the file.
func (f *File) StartLoc() Loc {
	return NewLoc(f.Path)
}
