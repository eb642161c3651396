package source

import "path/filepath"

// Path display modes understood by File.FormatPath.
const (
	PathAbsolute = "absolute"
	PathRelative = "relative"
	PathBasename = "basename"
	PathAuto     = "auto"
)

// GetLine returns line n (1-based) without its terminator, or "" when the
// file has no such line. A trailing \r of a CRLF ending is dropped.
func (f *File) GetLine(n uint32) string {
	start, end, ok := f.lineBounds(n)
	if !ok {
		return ""
	}
	line := f.Content[start:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return string(line)
}

func (f *File) lineBounds(n uint32) (start, end int, ok bool) {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return 0, 0, false
	}
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end = len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start >= len(f.Content) {
		return 0, 0, false
	}
	return start, end, true
}

// FormatPath renders the path of f for diagnostics. Unknown modes and
// failed conversions keep the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case PathAbsolute:
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case PathRelative:
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathBasename:
		return BaseName(f.Path)
	case PathAuto:
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
