package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"snep/internal/ast"
	"snep/internal/diag"
	"snep/internal/source"
)

// TreeNode is the serialisable view of a forest node.
type TreeNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Delim    string     `json:"delim,omitempty" yaml:"delim,omitempty"`
	Loc      string     `json:"loc,omitempty" yaml:"loc,omitempty"`
	Children []TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

const (
	kindText    = "text"
	kindElement = "element"
	kindLiteral = "literal"
	kindEscape  = "escape"
)

// BuildTree converts a forest into TreeNodes. Escape markers collapse into
// a single "escape" node carrying the bare opener.
func BuildTree(nodes []ast.Node) []TreeNode {
	out := make([]TreeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, buildNode(n))
	}
	return out
}

func buildNode(n ast.Node) TreeNode {
	switch n := n.(type) {
	case ast.Text:
		return TreeNode{Kind: kindText, Text: string(n)}
	case *ast.Element:
		if ast.IsEscapeMarker(n) {
			return TreeNode{Kind: kindEscape, Text: string(n.Children[0].(ast.Text))}
		}
		tn := TreeNode{
			Kind:  kindElement,
			Name:  n.Name,
			Delim: string([]byte{n.Opener(), n.Closer()}),
		}
		if len(n.Children) > 0 {
			tn.Children = BuildTree(n.Children)
		}
		if n.IsLiteral() {
			tn.Kind = kindLiteral
		}
		if n.Loc.Known() {
			tn.Loc = n.Loc.String()
		}
		return tn
	}
	return TreeNode{Kind: "unknown"}
}

// FormatTreePretty prints one node per line, indented by depth.
func FormatTreePretty(w io.Writer, nodes []ast.Node) error {
	var err error
	ast.Inspect(nodes, func(n ast.Node, depth int) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", depth)
		switch n := n.(type) {
		case ast.Text:
			_, err = fmt.Fprintf(w, "%s%s %q\n", indent, kindText, string(n))
		case *ast.Element:
			if ast.IsEscapeMarker(n) {
				_, err = fmt.Fprintf(w, "%s%s %q\n", indent, kindEscape, string(n.Children[0].(ast.Text)))
				return false
			}
			kind := kindElement
			if n.IsLiteral() {
				kind = kindLiteral
			}
			_, err = fmt.Fprintf(w, "%s%s %q %c%c", indent, kind, n.Name, n.Opener(), n.Closer())
			if err == nil && n.Loc.Known() {
				_, err = fmt.Fprintf(w, " at %s", n.Loc)
			}
			if err == nil {
				_, err = fmt.Fprintln(w)
			}
		}
		return true
	})
	return err
}

// FormatTreeJSON writes the forest as indented JSON.
func FormatTreeJSON(w io.Writer, nodes []ast.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTree(nodes))
}

// FormatTreeYAML writes the forest as YAML.
func FormatTreeYAML(w io.Writer, nodes []ast.Node) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(BuildTree(nodes)); err != nil {
		return err
	}
	return encoder.Close()
}

// FileTree is the dump of one parsed file: its forest and diagnostics.
type FileTree struct {
	Path        string           `json:"path" yaml:"path"`
	Nodes       []TreeNode       `json:"nodes" yaml:"nodes"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// NewFileTree builds the dump of one file.
func NewFileTree(path string, nodes []ast.Node, bag *diag.Bag, fs *source.FileSet) FileTree {
	out := FileTree{Path: path, Nodes: BuildTree(nodes)}
	if out.Nodes == nil {
		out.Nodes = []TreeNode{}
	}
	if bag != nil && bag.Len() > 0 {
		out.Diagnostics = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}).Diagnostics
	}
	return out
}

// FormatFilesJSON writes several file dumps as one indented JSON array.
func FormatFilesJSON(w io.Writer, files []FileTree) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(files)
}

// FormatFilesYAML writes several file dumps as one YAML sequence.
func FormatFilesYAML(w io.Writer, files []FileTree) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(files); err != nil {
		return err
	}
	return encoder.Close()
}
