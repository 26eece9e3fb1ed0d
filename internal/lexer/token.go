package lexer

import "fmt"

type TokenType int

const (
	TokenWord TokenType = iota

	TokenParenOpen
	TokenParenClose

	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenWord:
		return "Word"

	case TokenParenOpen:
		return "Parentheses open"
	case TokenParenClose:
		return "Parentheses close"

	case TokenEOF:
		return "EOF"
	}

	return "<unknown>"
}

type Token struct {
	Type     TokenType
	Start    Location
	Contents string
}

func (t Token) String() string {
	switch t.Type {
	case TokenWord:
		return t.Contents
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	}

	return ""
}

type Location struct {
	File string

	// 0-based
	Line, Column int
}

func (l *Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line+1, l.Column+1)
}
