package diagfmt

import (
	"snep/internal/source"
)

// displayPath formats the file of loc according to mode. Files unknown to
// fs are shown as recorded in the location.
func displayPath(loc source.Loc, fs *source.FileSet, mode PathMode) string {
	if !loc.Known() {
		return ""
	}
	if fs == nil {
		return loc.File
	}
	f, ok := fs.GetByPath(loc.File)
	if !ok {
		return loc.File
	}
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.mode(), base)
}

// formatLoc renders "path:line:col" or "<unknown>".
func formatLoc(loc source.Loc, fs *source.FileSet, mode PathMode) string {
	if !loc.Known() {
		return loc.String()
	}
	shown := loc
	shown.File = displayPath(loc, fs, mode)
	return shown.String()
}
