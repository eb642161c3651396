package testkit

import (
	"bytes"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownBlocks returns the bodies of fenced code blocks tagged with lang,
// in document order. The trailing newline of each body is dropped.
func MarkdownBlocks(doc []byte, lang string) [][]byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	root := markdown.Parse(doc, p)

	var out [][]byte
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		block, ok := node.(*ast.CodeBlock)
		if !ok || !entering || !block.IsFenced {
			return ast.GoToNext
		}
		if info := bytes.Fields(block.Info); len(info) == 0 || string(info[0]) != lang {
			return ast.GoToNext
		}
		body := bytes.TrimSuffix(block.Literal, []byte{'\n'})
		out = append(out, bytes.Clone(body))
		return ast.GoToNext
	})
	return out
}
