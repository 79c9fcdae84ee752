// Package codegen serializes a Program into its XML representation.
package codegen

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/zurustar/ippcode/pkg/compiler/ast"
	"github.com/zurustar/ippcode/pkg/compiler/grammar"
)

// Declaration is the XML declaration written before the root element.
const Declaration = `<?xml version="1.0" encoding="UTF-8"?>`

const indent = "    "

// Generator writes XML documents.
type Generator struct {
	w *bufio.Writer
}

// New creates a Generator writing to w.
func New(w io.Writer) *Generator {
	return &Generator{w: bufio.NewWriter(w)}
}

// Generate writes the whole document for program and flushes.
func (g *Generator) Generate(program *ast.Program) error {
	lang := program.Language
	if lang == "" {
		lang = ast.Language
	}

	fmt.Fprintln(g.w, Declaration)
	fmt.Fprintf(g.w, "<program language=\"%s\">\n", grammar.Escape(lang))
	for _, in := range program.Instructions {
		g.generateInstruction(in)
	}
	fmt.Fprintln(g.w, "</program>")

	return g.w.Flush()
}

// generateInstruction writes one <instruction> element with its arguments.
func (g *Generator) generateInstruction(in *ast.Instruction) {
	fmt.Fprintf(g.w, "%s<instruction order=\"%d\" opcode=\"%s\">\n", indent, in.Order, in.Opcode)
	for _, a := range in.Args {
		fmt.Fprintf(g.w, "%s%s<arg%d type=\"%s\">%s</arg%d>\n",
			indent, indent, a.Position, a.Type, grammar.Escape(a.Value), a.Position)
	}
	fmt.Fprintf(g.w, "%s</instruction>\n", indent)
}

// Write serializes program to w.
func Write(w io.Writer, program *ast.Program) error {
	return New(w).Generate(program)
}

// String returns the serialized document.
func String(program *ast.Program) string {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = Write(&buf, program)
	return buf.String()
}
