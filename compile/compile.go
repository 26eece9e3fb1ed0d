// Package compile turns lispcss source into CSS.
//
// A source is a sequence of groups such as
//
//	(ul padding 0
//	    (li margin (0 4px)))
//
// where the first word of a group is its selector, the following word pairs are
// properties and values, and nested groups become descendant selectors.
package compile

import (
	"fmt"
	"strings"

	"github.com/pipe01/lispcss/internal/generator"
	"github.com/pipe01/lispcss/internal/lexer"
	"github.com/pipe01/lispcss/internal/parser"
	"github.com/pipe01/lispcss/internal/parser/ast"
)

type Options struct {
	// Fail when a top-level group cannot be parsed instead of leaving it out
	Strict bool
}

// SkippedError is returned in strict mode when some groups could not be parsed.
type SkippedError struct {
	Skipped []ast.Skipped
}

func (e *SkippedError) Error() string {
	msgs := make([]string, len(e.Skipped))
	for i, s := range e.Skipped {
		msgs[i] = fmt.Sprintf("group %d: %s", s.Group, s.Err)
	}

	return fmt.Sprintf("%d group(s) could not be compiled: %s", len(e.Skipped), strings.Join(msgs, "; "))
}

// Unwrap returns the error of the first skipped group.
func (e *SkippedError) Unwrap() error {
	if len(e.Skipped) == 0 {
		return nil
	}

	return e.Skipped[0].Err
}

// String compiles input leniently and returns the stylesheet.
func String(input string) (string, error) {
	return Source([]byte(input), "", Options{})
}

// Parse lexes and parses input. fileName is only used in error locations.
func Parse(input []byte, fileName string) (*ast.File, error) {
	tks, err := lexer.New(input, fileName).Collect()
	if err != nil {
		return nil, fmt.Errorf("lex file: %w", err)
	}

	f, err := parser.Parse(tks)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	f.Name = fileName
	return f, nil
}

// Source compiles input into a stylesheet.
func Source(input []byte, fileName string, opts Options) (string, error) {
	f, err := Parse(input, fileName)
	if err != nil {
		return "", err
	}

	return File(f, opts)
}

// File renders an already parsed file.
func File(f *ast.File, opts Options) (string, error) {
	if opts.Strict && len(f.Skipped) > 0 {
		return "", &SkippedError{Skipped: f.Skipped}
	}

	var b strings.Builder
	if err := generator.Visit(&b, f); err != nil {
		return "", fmt.Errorf("generate output: %w", err)
	}

	return b.String(), nil
}
