// Package compiler provides the translation pipeline for IPPcode24 programs.
// This file defines the CompileError type for structured error reporting.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zurustar/ippcode/pkg/compiler/builder"
	"github.com/zurustar/ippcode/pkg/compiler/parser"
)

// Error kinds. Use errors.Is on any error returned by this package.
// ErrArityOrKind and ErrDuplicateHeader also match ErrSyntax.
var (
	ErrMissingHeader   = builder.ErrMissingHeader
	ErrDuplicateHeader = parser.ErrDuplicateHeader
	ErrSyntax          = parser.ErrSyntax
	ErrUnknownOpcode   = parser.ErrUnknownOpcode
	ErrArityOrKind     = parser.ErrArityOrKind
)

// CompileError represents a structured compilation error with location information.
// It implements the error interface and provides detailed context about where
// the error occurred in the source code.
type CompileError struct {
	// Phase indicates which compilation phase generated the error.
	// Valid values: "header", "parser"
	Phase string

	// Message is the human-readable error description.
	Message string

	// Line is the 1-indexed line number where the error occurred.
	Line int

	// Column is the 1-indexed column number where the error occurred.
	Column int

	// Context contains the source code around the error location.
	// This includes 2 lines before and after the error line,
	// with a pointer (^) indicating the error column.
	Context string

	// Err is the error kind (ErrMissingHeader, ErrSyntax, ...).
	Err error
}

// Error implements the error interface.
// It returns a formatted error message including phase, location, message, and context.
func (e *CompileError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s error at line %d, column %d: %s\n%s",
			e.Phase, e.Line, e.Column, e.Message, e.Context)
	}
	return fmt.Sprintf("%s error at line %d, column %d: %s",
		e.Phase, e.Line, e.Column, e.Message)
}

// Unwrap returns the error kind.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// newCompileError converts an error from the builder or parser into a
// CompileError with source context.
func newCompileError(err error, source []string) *CompileError {
	joined := strings.Join(source, "\n")

	var he *builder.HeaderError
	if errors.As(err, &he) {
		return &CompileError{
			Phase:   "header",
			Message: err.Error(),
			Line:    he.Line,
			Column:  1,
			Context: GenerateErrorContext(joined, he.Line, 1),
			Err:     ErrMissingHeader,
		}
	}

	var pe *parser.ParserError
	if errors.As(err, &pe) {
		return &CompileError{
			Phase:   "parser",
			Message: pe.Message,
			Line:    pe.Line,
			Column:  pe.Column,
			Context: GenerateErrorContext(joined, pe.Line, pe.Column),
			Err:     pe.Err,
		}
	}

	return &CompileError{Phase: "compiler", Message: err.Error(), Err: err}
}

// GenerateErrorContext generates source code context around an error location.
// It includes 2 lines before and 2 lines after the error line, with line numbers
// and a pointer (^) indicating the error column.
//
// Parameters:
//   - source: The full source code
//   - line: The 1-indexed line number of the error
//   - column: The 1-indexed column number of the error
//
// Returns:
//   - string: Formatted context string with line numbers and error pointer
//
// Example output:
//
//	  2 | DEFVAR GF@x
//	  3 | MOVE GF@x int@1
//	> 4 | ADD GF@x GF@x nil@bogus
//	    |               ^
//	  5 | WRITE GF@x
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	// Calculate the range of lines to show (2 before and 2 after)
	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder

	maxLineNum := end
	lineNumWidth := len(fmt.Sprintf("%d", maxLineNum))

	for i := start; i < end; i++ {
		lineNum := i + 1
		lineContent := lines[i]

		if lineNum == line {
			buf.WriteString(fmt.Sprintf("> %*d | %s\n", lineNumWidth, lineNum, lineContent))
			// "> " + lineNumWidth + " | "
			pointerIndent := 2 + lineNumWidth + 3
			if column > 0 {
				buf.WriteString(fmt.Sprintf("%s%s^\n", strings.Repeat(" ", pointerIndent), strings.Repeat(" ", column-1)))
			} else {
				buf.WriteString(fmt.Sprintf("%s^\n", strings.Repeat(" ", pointerIndent)))
			}
		} else {
			buf.WriteString(fmt.Sprintf("  %*d | %s\n", lineNumWidth, lineNum, lineContent))
		}
	}

	return buf.String()
}
