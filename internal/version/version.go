// Package version reports the build identity of the snep CLI.
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Version information for the snep CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the serialisable build identity.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// Current returns the identity of the running binary.
func Current() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// Colored renders the version with each numeric component in its own color.
// Anything that is not major.minor.patch is returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	colors := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	out := make([]string, len(parts))
	for i, p := range parts {
		c := *colors[i]
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		out[i] = c.Sprint(p)
	}
	s := strings.Join(out, ".")
	if suffix != "" {
		s += "-" + suffix
	}
	return s
}

// WritePretty prints "snep <version>" and the optional build details.
func WritePretty(w io.Writer, info Info, useColor bool) error {
	if _, err := fmt.Fprintf(w, "snep %s\n", Colored(info.Version, useColor)); err != nil {
		return err
	}
	if info.GitCommit != "" {
		fmt.Fprintf(w, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(w, "built:  %s\n", info.BuildDate)
	}
	_, err := fmt.Fprintf(w, "go:     %s\n", info.GoVersion)
	return err
}

// WriteJSON prints info as a single JSON object.
func WriteJSON(w io.Writer, info Info) error {
	return json.NewEncoder(w).Encode(info)
}
