package generator

import (
	"io"
	"strings"

	"github.com/pipe01/lispcss/internal/parser/ast"
)

// Visit writes the stylesheet for every top-level node of f to w.
func Visit(w io.Writer, f *ast.File) error {
	ctx := context{
		w: &outputWriter{
			w: w,
		},
	}

	for _, n := range f.Nodes {
		ctx.visitNode(n, "")
	}

	return ctx.w.Err()
}

// Render returns the stylesheet for n and its descendants, with parent being the
// full selector of the enclosing node ("" at the top level).
func Render(n *ast.Node, parent string) string {
	var b strings.Builder

	ctx := context{
		w: &outputWriter{
			w: &b,
		},
	}
	ctx.visitNode(n, parent)

	return b.String()
}

type context struct {
	w *outputWriter
}

func (c *context) visitNode(n *ast.Node, parent string) {
	selector := selectorLines(parent, string(n.Selector))

	// Nodes without rules only contribute their selector to their children
	if len(n.Rules) > 0 {
		lines := make([]string, 0, len(n.Rules))
		for _, r := range n.Rules {
			lines = append(lines, ruleLine(r.Property, r.Value))
		}

		c.w.WriteBlockStart(selector)
		c.w.WriteRules(lines)
		c.w.WriteBlockEnd()
	}

	for _, ch := range n.Children {
		c.visitNode(ch, selector)
	}
}
