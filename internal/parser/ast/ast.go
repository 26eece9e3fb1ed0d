package ast

import (
	"github.com/pipe01/lispcss/internal/lexer"
)

type Pos lexer.Location

func (p Pos) Position() lexer.Location {
	return lexer.Location(p)
}

type File struct {
	Name  string
	Nodes []*Node

	// Top-level groups that could not be parsed and were left out of Nodes
	Skipped []Skipped
}

// Skipped is a top-level group dropped from a File.
type Skipped struct {
	Pos

	// 0-based index of the group among all top-level groups
	Group int
	Err   error
}

// Selector is the raw selector text of a node, e.g. "a:hover" or "ul,ol".
type Selector string

type Rule struct {
	Pos

	Property string
	Value    []string
}

// Node is a parenthesized group: a selector, its rules and nested groups.
type Node struct {
	Pos

	Selector Selector
	Rules    []Rule
	Children []*Node
}
