package parser

import (
	"errors"
	"fmt"

	"github.com/pipe01/lispcss/internal/lexer"
	. "github.com/pipe01/lispcss/internal/parser/ast"
	"golang.org/x/exp/slices"
)

var (
	ErrUnbalancedClose   = errors.New("unbalanced closing parenthesis")
	ErrUnterminatedGroup = errors.New("group is never closed")
	ErrStrayWord         = errors.New("word outside of any group")
	ErrEmptyValue        = errors.New("empty value list")
)

type ParserError struct {
	Inner    error
	Location lexer.Location
}

func (e *ParserError) Unwrap() error {
	return e.Inner
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %s", e.Inner, &e.Location)
}

func (e *ParserError) At() lexer.Location {
	return e.Location
}

type UnexpectedTokenError struct {
	Got      *lexer.Token
	Expected string
}

func (e *UnexpectedTokenError) Error() string {
	if e.Got.Type == lexer.TokenEOF {
		return fmt.Sprintf("expected %s, found end of group", e.Expected)
	}

	return fmt.Sprintf("expected %s, found %q (%s)", e.Expected, e.Got.Contents, e.Got.Type)
}

// parser walks the tokens of a single top-level group, brackets excluded.
type parser struct {
	tokens []lexer.Token
	index  int

	// Returned by take and peek once tokens run out
	eof lexer.Token
}

// Parse splits tokens into top-level groups and parses each of them. A group that
// fails to parse is recorded in File.Skipped instead of failing the whole document;
// only a closing parenthesis without a matching open one is a fatal error.
func Parse(tokens []lexer.Token) (*File, error) {
	f := &File{}

	if len(tokens) > 0 {
		f.Name = tokens[0].Start.File
	}

	var (
		depth int
		left  int
		group int
	)

	for right := range tokens {
		tk := &tokens[right]

		switch tk.Type {
		case lexer.TokenEOF:
			if depth > 0 {
				f.Skipped = append(f.Skipped, skipped(group, &tokens[left], ErrUnterminatedGroup))
			}
			return f, nil

		case lexer.TokenWord:
			if depth == 0 {
				f.Skipped = append(f.Skipped, skipped(group, tk, ErrStrayWord))
				group++
				left = right + 1
			}
			continue

		case lexer.TokenParenOpen:
			depth++
			continue

		case lexer.TokenParenClose:
			if depth == 0 {
				return nil, &ParserError{
					Inner:    ErrUnbalancedClose,
					Location: tk.Start,
				}
			}

			depth--
			if depth > 0 {
				continue
			}
		}

		p := parser{
			tokens: tokens[left+1 : right],
			eof: lexer.Token{
				Type:  lexer.TokenEOF,
				Start: tk.Start,
			},
		}

		node, err := p.parseNode()
		if err != nil {
			f.Skipped = append(f.Skipped, Skipped{
				Pos:   Pos(tokens[left].Start),
				Group: group,
				Err:   err,
			})
		} else {
			f.Nodes = append(f.Nodes, node)
		}

		group++
		left = right + 1
	}

	// No EOF sentinel
	if depth > 0 {
		f.Skipped = append(f.Skipped, skipped(group, &tokens[left], ErrUnterminatedGroup))
	}

	return f, nil
}

func skipped(group int, at *lexer.Token, err error) Skipped {
	return Skipped{
		Pos:   Pos(at.Start),
		Group: group,
		Err: &ParserError{
			Inner:    err,
			Location: at.Start,
		},
	}
}

func (p *parser) take() (tk *lexer.Token) {
	if p.index >= len(p.tokens) {
		return &p.eof
	}

	tk = &p.tokens[p.index]
	p.index++

	return tk
}

func (p *parser) peek() *lexer.Token {
	if p.index >= len(p.tokens) {
		return &p.eof
	}

	return &p.tokens[p.index]
}

func (p *parser) unexpected(tk *lexer.Token, expected string) error {
	return &ParserError{
		Inner: &UnexpectedTokenError{
			Got:      tk,
			Expected: expected,
		},
		Location: tk.Start,
	}
}

// parseNode parses the contents of a group whose opening parenthesis has already
// been taken, up to and including its closing parenthesis.
func (p *parser) parseNode() (*Node, error) {
	tk := p.take()
	if tk.Type != lexer.TokenWord {
		return nil, p.unexpected(tk, "a selector")
	}

	node := &Node{
		Pos:      Pos(tk.Start),
		Selector: Selector(tk.Contents),
	}

loop:
	for {
		switch p.peek().Type {
		case lexer.TokenWord:
			rule, err := p.parseRule()
			if err != nil {
				return nil, err
			}

			node.Rules = append(node.Rules, rule)

		case lexer.TokenParenOpen:
			p.take()

			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}

			node.Children = append(node.Children, child)

		default:
			p.take()
			break loop
		}
	}

	return node, nil
}

func (p *parser) parseRule() (Rule, error) {
	tkProp := p.take()

	rule := Rule{
		Pos:      Pos(tkProp.Start),
		Property: tkProp.Contents,
	}

	tk := p.take()

	switch tk.Type {
	case lexer.TokenWord:
		rule.Value = []string{tk.Contents}

	case lexer.TokenParenOpen:
		// Lists are flat, whatever ends the run of words ends the list
		rest := p.tokens[p.index:]

		n := slices.IndexFunc(rest, func(tk lexer.Token) bool {
			return tk.Type != lexer.TokenWord
		})
		if n < 0 {
			n = len(rest)
		}

		for _, tk := range rest[:n] {
			rule.Value = append(rule.Value, tk.Contents)
		}

		p.index += n
		p.take()

		if len(rule.Value) == 0 {
			return Rule{}, &ParserError{
				Inner:    ErrEmptyValue,
				Location: tk.Start,
			}
		}

	default:
		return Rule{}, p.unexpected(tk, "a value")
	}

	return rule, nil
}
