package lexer

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

const debugPrint = false

type LexerError struct {
	Inner    error
	Location Location
}

func (e *LexerError) Unwrap() error {
	return e.Inner
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s at %s", e.Inner, &e.Location)
}

func (e *LexerError) At() Location {
	return e.Location
}

var ErrInvalidUTF8 = errors.New("invalid UTF-8 encoding")

type stateFunc func() stateFunc

type state struct {
	str      []rune
	strStart Location

	byteIndex int
	line, col int

	// Parentheses opened inside the word being scanned
	parens int
}

// Lexer splits a stylesheet source into words and grouping parentheses.
type Lexer struct {
	filename string
	file     []byte

	tokens []Token
	done   bool

	state

	err *LexerError
}

func New(file []byte, fileName string) *Lexer {
	lexer := &Lexer{
		file:     file,
		filename: fileName,
	}
	lexer.discard()

	return lexer
}

// Collect runs the lexer over the whole input and returns every token, the last
// one always being TokenEOF.
func (l *Lexer) Collect() ([]Token, error) {
	if !l.done {
		state := l.lexDocument
		for state != nil {
			state = state()

			if l.err != nil {
				break
			}
		}

		l.done = true

		if l.err == nil {
			l.tokens = append(l.tokens, Token{
				Type:  TokenEOF,
				Start: l.here(),
			})
		}
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func (l *Lexer) here() Location {
	return Location{
		File:   l.filename,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *Lexer) peek() (r rune, eof bool) {
	if l.byteIndex >= len(l.file) {
		return 0, true
	}

	r, size := utf8.DecodeRune(l.file[l.byteIndex:])
	if r == utf8.RuneError && size == 1 {
		l.err = &LexerError{
			Inner:    ErrInvalidUTF8,
			Location: l.here(),
		}
		return 0, true
	}

	return r, false
}

func (l *Lexer) take() (r rune, eof bool) {
	r, eof = l.peek()
	if eof {
		return 0, true
	}

	l.str = append(l.str, r)
	l.byteIndex += utf8.RuneLen(r)
	l.col++

	if r == '\n' {
		l.line++
		l.col = 0
	}

	if debugPrint {
		fmt.Printf("take %q\n", r)
	}

	return r, false
}

func (l *Lexer) emit(typ TokenType) {
	l.tokens = append(l.tokens, Token{
		Type:     typ,
		Start:    l.strStart,
		Contents: string(l.str),
	})

	l.discard()
}

func (l *Lexer) discard() {
	l.strStart = l.here()
	l.str = l.str[:0]
}

func (l *Lexer) lexDocument() stateFunc {
	for {
		r, eof := l.peek()
		if eof {
			return nil
		}

		switch {
		case r == '(':
			l.take()
			l.emit(TokenParenOpen)

		case r == ')':
			l.take()
			l.emit(TokenParenClose)

		case unicode.IsSpace(r):
			l.take()
			l.discard()

		default:
			return l.lexWord
		}
	}
}

// lexWord takes a run of non-space characters. Parentheses opened inside the word
// belong to it, so "var(--a, b)" is a single word; a closing parenthesis with
// nothing left open ends the word and is left for lexDocument.
func (l *Lexer) lexWord() stateFunc {
	l.parens = 0

	for {
		r, eof := l.peek()
		if eof {
			break
		}

		if l.parens == 0 && (r == ')' || unicode.IsSpace(r)) {
			break
		}

		switch r {
		case '(':
			l.parens++
		case ')':
			l.parens--
		}

		l.take()
	}

	if l.err != nil {
		return nil
	}

	l.emit(TokenWord)
	return l.lexDocument
}
