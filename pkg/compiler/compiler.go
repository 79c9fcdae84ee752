// Package compiler provides the translation pipeline for IPPcode24 programs.
// It transforms source lines into an XML document through three phases:
// 1. Token: comment stripping and tokenization
// 2. Builder: header check and per-instruction validation
// 3. Codegen: XML serialization
//
// This package provides a unified API:
// - Compile: Validates source lines and returns the Program
// - CompileString: Same as Compile for a single source string
// - Translate: Compiles source lines and writes the XML document
package compiler

import (
	"fmt"
	"io"

	"github.com/zurustar/ippcode/pkg/compiler/ast"
	"github.com/zurustar/ippcode/pkg/compiler/builder"
	"github.com/zurustar/ippcode/pkg/compiler/codegen"
	"github.com/zurustar/ippcode/pkg/compiler/token"
)

// Compile validates source lines and returns the program they describe.
// The pipeline is fail-fast: the first invalid line stops it.
//
// Parameters:
//   - lines: raw source lines, comments and blank lines included
//
// Returns:
//   - *ast.Program: The validated program (nil on error)
//   - error: A *CompileError wrapping one of the Err* kinds
func Compile(lines []string) (*ast.Program, error) {
	program, err := builder.New().Build(lines)
	if err != nil {
		return nil, newCompileError(err, lines)
	}
	return program, nil
}

// CompileString compiles a whole source text.
func CompileString(source string) (*ast.Program, error) {
	return Compile(token.SplitLines(source))
}

// Translate compiles source lines and writes the XML document to w.
// Nothing is written when compilation fails.
func Translate(lines []string, w io.Writer) error {
	program, err := Compile(lines)
	if err != nil {
		return err
	}
	if err := codegen.Write(w, program); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// ToXML returns the XML document of a compiled program.
func ToXML(program *ast.Program) string {
	return codegen.String(program)
}
