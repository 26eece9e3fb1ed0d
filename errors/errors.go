package errors

import "github.com/pipe01/lispcss/internal/lexer"

// SituatedErr is implemented by errors that point at a location in a source file.
type SituatedErr interface {
	Unwrap() error
	At() lexer.Location
}
