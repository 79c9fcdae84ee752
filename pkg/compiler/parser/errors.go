package parser

import (
	"errors"
	"fmt"
)

// Error kinds reported while validating an instruction. ErrArityOrKind and
// ErrDuplicateHeader are specializations of ErrSyntax.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrArityOrKind     = fmt.Errorf("%w: operand count or kind mismatch", ErrSyntax)
	ErrDuplicateHeader = fmt.Errorf("%w: header repeated inside the program", ErrSyntax)
)

// ParserError represents a validation failure with its location.
type ParserError struct {
	Err     error  // one of the error kinds above
	Message string // human-readable description
	Token   string // offending token, if any
	Line    int    // 1-indexed source line, 0 when unknown
	Column  int    // 1-indexed column of Token, 0 when unknown
}

// Error implements the error interface.
func (e *ParserError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v at line %d, column %d: %s", e.Err, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Message)
}

// Unwrap returns the error kind so callers can use errors.Is.
func (e *ParserError) Unwrap() error {
	return e.Err
}

func newError(kind error, tok string, format string, args ...any) *ParserError {
	return &ParserError{
		Err:     kind,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
	}
}
