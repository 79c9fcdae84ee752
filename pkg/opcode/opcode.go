// Package opcode defines the instruction set of the IPPcode24 language.
// This package is the foundation that both the compiler and the statistics
// engine depend on. The table is closed: every recognised opcode maps to
// exactly one operand shape, and adding an opcode is a one-line edit.
package opcode

import "sort"

// Kind is the syntactic category an operand must satisfy at a position.
type Kind string

// Operand kinds.
const (
	// KindLabel is a bare label name, e.g. "loop_start".
	KindLabel Kind = "label"

	// KindVar is a frame-qualified variable, e.g. "GF@counter".
	KindVar Kind = "var"

	// KindSymb is a variable or a typed literal, e.g. "int@42" or "LF@x".
	KindSymb Kind = "symb"

	// KindType is one of the type names "int", "bool", "string", "nil".
	KindType Kind = "type"
)

// Shape describes the operands an opcode requires.
type Shape struct {
	Name  string
	kinds []Kind
}

// Arity returns the exact number of operands.
func (s Shape) Arity() int {
	return len(s.kinds)
}

// Kinds returns a copy of the per-position operand kinds.
func (s Shape) Kinds() []Kind {
	out := make([]Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// At returns the kind required at the 0-based position i.
func (s Shape) At(i int) Kind {
	return s.kinds[i]
}

// Operand shapes. Each opcode belongs to exactly one of these classes.
var (
	ShapeNone          = Shape{Name: "none"}
	ShapeLabel         = Shape{Name: "label", kinds: []Kind{KindLabel}}
	ShapeVar           = Shape{Name: "var", kinds: []Kind{KindVar}}
	ShapeSymb          = Shape{Name: "symb", kinds: []Kind{KindSymb}}
	ShapeVarSymb       = Shape{Name: "var-symb", kinds: []Kind{KindVar, KindSymb}}
	ShapeVarType       = Shape{Name: "var-type", kinds: []Kind{KindVar, KindType}}
	ShapeVarSymbSymb   = Shape{Name: "var-symb-symb", kinds: []Kind{KindVar, KindSymb, KindSymb}}
	ShapeLabelSymbSymb = Shape{Name: "label-symb-symb", kinds: []Kind{KindLabel, KindSymb, KindSymb}}
)

// Opcodes that the statistics engine treats specially.
const (
	Label     = "LABEL"
	Call      = "CALL"
	Jump      = "JUMP"
	JumpIfEq  = "JUMPIFEQ"
	JumpIfNeq = "JUMPIFNEQ"
	Return    = "RETURN"
)

var table = map[string]Shape{
	"CREATEFRAME": ShapeNone,
	"PUSHFRAME":   ShapeNone,
	"POPFRAME":    ShapeNone,
	"RETURN":      ShapeNone,
	"BREAK":       ShapeNone,

	"CALL":  ShapeLabel,
	"LABEL": ShapeLabel,
	"JUMP":  ShapeLabel,

	"DEFVAR": ShapeVar,
	"POPS":   ShapeVar,

	"PUSHS":  ShapeSymb,
	"WRITE":  ShapeSymb,
	"EXIT":   ShapeSymb,
	"DPRINT": ShapeSymb,

	"MOVE":     ShapeVarSymb,
	"INT2CHAR": ShapeVarSymb,
	"STRLEN":   ShapeVarSymb,
	"TYPE":     ShapeVarSymb,
	"NOT":      ShapeVarSymb,

	"READ": ShapeVarType,

	"ADD":      ShapeVarSymbSymb,
	"SUB":      ShapeVarSymbSymb,
	"MUL":      ShapeVarSymbSymb,
	"IDIV":     ShapeVarSymbSymb,
	"LT":       ShapeVarSymbSymb,
	"GT":       ShapeVarSymbSymb,
	"EQ":       ShapeVarSymbSymb,
	"AND":      ShapeVarSymbSymb,
	"OR":       ShapeVarSymbSymb,
	"STRI2INT": ShapeVarSymbSymb,
	"CONCAT":   ShapeVarSymbSymb,
	"GETCHAR":  ShapeVarSymbSymb,
	"SETCHAR":  ShapeVarSymbSymb,

	"JUMPIFEQ":  ShapeLabelSymbSymb,
	"JUMPIFNEQ": ShapeLabelSymbSymb,
}

// Lookup returns the shape of an upper-cased opcode name.
func Lookup(name string) (Shape, bool) {
	s, ok := table[name]
	return s, ok
}

// Names returns every opcode in the table, sorted.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsControlTransfer reports whether the opcode transfers control to a label operand.
func IsControlTransfer(name string) bool {
	switch name {
	case Call, Jump, JumpIfEq, JumpIfNeq:
		return true
	}
	return false
}

// IsJumpOrReturn reports whether the opcode is a control transfer or RETURN.
func IsJumpOrReturn(name string) bool {
	return name == Return || IsControlTransfer(name)
}
