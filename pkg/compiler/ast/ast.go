// Package ast defines the validated form of an IPPcode24 program.
package ast

import (
	"bytes"
	"fmt"
)

// Language is the dialect name written on the document root.
const Language = "IPPcode24"

// Header is the marker line every program must open with.
const Header = ".IPPcode24"

// Program is the root node.
type Program struct {
	Language     string
	Instructions []*Instruction
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString(Header)
	out.WriteString("\n")
	for _, in := range p.Instructions {
		out.WriteString(in.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Instruction is one validated source line.
type Instruction struct {
	Order  int    // 1-based position within the program
	Opcode string // upper-cased
	Args   []Argument
	Line   int // source line the instruction came from
}

// TypeTags returns the resolved type tag of every argument in order.
func (in *Instruction) TypeTags() []string {
	tags := make([]string, len(in.Args))
	for i, a := range in.Args {
		tags[i] = a.Type
	}
	return tags
}

func (in *Instruction) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "%d: %s", in.Order, in.Opcode)
	for _, a := range in.Args {
		out.WriteString(" ")
		out.WriteString(a.String())
	}
	return out.String()
}

// Argument is a classified operand.
type Argument struct {
	Position int    // 1-based
	Type     string // var, label, type, int, bool, string or nil
	Value    string // unescaped text content
}

func (a Argument) String() string {
	return fmt.Sprintf("%s(%s)", a.Type, a.Value)
}
