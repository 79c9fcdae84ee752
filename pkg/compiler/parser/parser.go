// Package parser validates IPPcode24 instructions against the opcode table
// and resolves the type tag of every operand.
package parser

import (
	"strings"

	"github.com/zurustar/ippcode/pkg/compiler/ast"
	"github.com/zurustar/ippcode/pkg/compiler/grammar"
	"github.com/zurustar/ippcode/pkg/compiler/token"
	"github.com/zurustar/ippcode/pkg/opcode"
)

// Validate checks the operands of one instruction and returns the resolved
// type tag of each operand.
//
// The checks run in a fixed order: opcode syntax (ErrSyntax), table lookup
// (ErrUnknownOpcode), operand count and finally per-position kinds
// (ErrArityOrKind). A symbol position accepts a variable, reported with the
// tag "var".
func Validate(op string, operands []string) ([]string, error) {
	if !grammar.IsOpcode(op) {
		return nil, newError(ErrSyntax, op, "invalid opcode %q", op)
	}

	shape, ok := opcode.Lookup(op)
	if !ok {
		return nil, newError(ErrUnknownOpcode, op, "unknown opcode %q", op)
	}

	if len(operands) != shape.Arity() {
		return nil, newError(ErrArityOrKind, op, "%s expects %d operand(s), got %d", op, shape.Arity(), len(operands))
	}

	tags := make([]string, len(operands))
	for i, tok := range operands {
		tag, ok := resolve(shape.At(i), tok)
		if !ok {
			return nil, newError(ErrArityOrKind, tok, "operand %d of %s must be %s, got %q", i+1, op, shape.At(i), tok)
		}
		tags[i] = tag
	}

	return tags, nil
}

// resolve checks one operand against its required kind.
func resolve(kind opcode.Kind, tok string) (string, bool) {
	switch kind {
	case opcode.KindVar:
		return string(opcode.KindVar), grammar.IsVariable(tok)
	case opcode.KindLabel:
		return string(opcode.KindLabel), grammar.IsLabel(tok)
	case opcode.KindType:
		return string(opcode.KindType), grammar.IsType(tok)
	case opcode.KindSymb:
		lit, ok := grammar.Classify(tok)
		return string(lit.Kind), ok
	}
	return "", false
}

// IsHeader reports whether tok is the program header, ignoring case.
func IsHeader(tok string) bool {
	return strings.EqualFold(tok, ast.Header)
}

// ParseInstruction validates one tokenized line and returns the
// instruction it describes. Order is left at zero for the caller to assign.
func ParseInstruction(line token.Line) (*ast.Instruction, error) {
	if len(line.Tokens) == 0 {
		return nil, &ParserError{Err: ErrSyntax, Message: "empty instruction", Line: line.Number, Column: line.Column}
	}

	if IsHeader(line.Tokens[0]) {
		return nil, &ParserError{
			Err:     ErrDuplicateHeader,
			Message: "header may only appear on the first line",
			Token:   line.Tokens[0],
			Line:    line.Number,
			Column:  line.Column,
		}
	}

	op := line.Opcode()
	operands := line.Operands()

	tags, err := Validate(op, operands)
	if err != nil {
		if pe, ok := err.(*ParserError); ok {
			pe.Line = line.Number
			pe.Column = line.ColumnOf(pe.Token)
		}
		return nil, err
	}

	args := make([]ast.Argument, len(operands))
	for i, tok := range operands {
		args[i] = ast.Argument{
			Position: i + 1,
			Type:     tags[i],
			Value:    grammar.TextOf(tok),
		}
	}

	return &ast.Instruction{
		Opcode: op,
		Args:   args,
		Line:   line.Number,
	}, nil
}
