// Package token splits IPPcode24 source lines into whitespace-separated tokens.
package token

import (
	"strings"
	"unicode"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "#"

// Line is a source line reduced to its tokens.
type Line struct {
	Number int      // 1-based line number in the raw source
	Column int      // 1-based column in the raw line where Text starts
	Text   string   // the line with the comment removed and whitespace trimmed
	Tokens []string // whitespace-separated tokens of Text
}

// Opcode returns the first token upper-cased, or "" for an empty line.
func (l Line) Opcode() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	return strings.ToUpper(l.Tokens[0])
}

// Operands returns every token after the opcode.
func (l Line) Operands() []string {
	if len(l.Tokens) < 2 {
		return nil
	}
	return l.Tokens[1:]
}

// Arg returns the i-th operand (0-based) or "" when there is none.
func (l Line) Arg(i int) string {
	ops := l.Operands()
	if i < 0 || i >= len(ops) {
		return ""
	}
	return ops[i]
}

// StripComment removes everything from the first '#' on and trims whitespace.
func StripComment(raw string) string {
	if i := strings.Index(raw, CommentMarker); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// IsComment reports whether raw contains a comment marker anywhere.
func IsComment(raw string) bool {
	return strings.Contains(raw, CommentMarker)
}

// Tokenize converts one raw source line. ok is false for lines that are
// blank or hold only a comment.
func Tokenize(raw string, number int) (Line, bool) {
	text := StripComment(raw)
	if text == "" {
		return Line{}, false
	}
	column := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace)) + 1
	return Line{Number: number, Column: column, Text: text, Tokens: strings.Fields(text)}, true
}

// ColumnOf returns the 1-based raw column of the first occurrence of tok,
// or the start of the line when tok does not occur.
func (l Line) ColumnOf(tok string) int {
	if i := strings.Index(l.Text, tok); i >= 0 && tok != "" {
		return l.Column + i
	}
	return l.Column
}

// Filter tokenizes every raw line and drops blank and comment-only lines.
// Surviving lines keep their original 1-based numbers.
func Filter(raw []string) []Line {
	lines := make([]Line, 0, len(raw))
	for i, r := range raw {
		if l, ok := Tokenize(r, i+1); ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// SplitLines splits source text into raw lines. A trailing "\r" is removed
// from every line and the empty segment after a final newline is dropped.
func SplitLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
