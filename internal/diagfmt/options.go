package diagfmt

import "snep/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     source.PathAuto,
	PathModeAbsolute: source.PathAbsolute,
	PathModeRelative: source.PathRelative,
	PathModeBasename: source.PathBasename,
}

// ParsePathMode maps a flag value onto a PathMode. Empty means auto.
func ParsePathMode(s string) (PathMode, bool) {
	if s == "" {
		return PathModeAuto, true
	}
	for m, name := range pathModeNames {
		if name == s {
			return PathMode(m), true
		}
	}
	return PathModeAuto, false
}

func (m PathMode) mode() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return source.PathAuto
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // сколько строк показывать перед строкой с ошибкой
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}
