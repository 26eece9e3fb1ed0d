package ast

import (
	"fmt"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Dump renders the file as an indented tree of selectors and rules.
func Dump(f *File) string {
	header := fmt.Sprintf("%s (%d nodes, %d skipped)\n", f.Name, len(f.Nodes), len(f.Skipped))
	p := tp.New()

	for _, n := range f.Nodes {
		dumpNode(p, n)
	}

	for _, s := range f.Skipped {
		p.AddNode(fmt.Sprintf("skipped group %d: %s", s.Group, s.Err))
	}

	return header + p.String()
}

func dumpNode(p tp.Tree, n *Node) {
	branch := p.AddBranch(string(n.Selector))

	for _, r := range n.Rules {
		branch.AddNode(fmt.Sprintf("%s: %s", r.Property, strings.Join(r.Value, " ")))
	}

	for _, ch := range n.Children {
		dumpNode(branch, ch)
	}
}
