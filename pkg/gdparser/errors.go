package gdparser

import (
	"errors"
	"fmt"
)

// Sentinel errors describing why a text could not be parsed.
var (
	ErrUnterminatedString   = errors.New("unterminated string")
	ErrUnbalancedBracket    = errors.New("unbalanced closing bracket")
	ErrUnclosedBracket      = errors.New("unclosed bracket")
	ErrDanglingContinuation = errors.New("line continuation at end of input")
	ErrUnexpectedIndent     = errors.New("unexpected indentation")
	ErrExpectedDeclaration  = errors.New("expected a declaration")
	ErrNestingTooDeep       = errors.New("nesting too deep")
)

// ParseError reports a syntax error at a position in the parsed text.
type ParseError struct {
	// Offset is the byte offset of the error.
	Offset int

	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
