// Package stats computes static metrics over IPPcode24 source text.
//
// An Engine is built once from the raw source lines and is read-only
// afterwards, so every metric is a pure function of the source and may be
// computed in any order, repeatedly, or concurrently.
package stats

import (
	"sort"
	"strings"

	"github.com/zurustar/ippcode/pkg/compiler/token"
	"github.com/zurustar/ippcode/pkg/opcode"
)

// span is the first and last filtered-line index declaring a label.
type span struct {
	first, last int
}

// Engine holds the source in the two forms the metrics need.
type Engine struct {
	raw    []string
	lines  []token.Line
	labels map[string]span
}

// New prepares an Engine for the given raw source lines, comments and
// blank lines included.
func New(raw []string) *Engine {
	e := &Engine{
		raw:    raw,
		lines:  token.Filter(raw),
		labels: make(map[string]span),
	}

	for i, l := range e.lines {
		if l.Opcode() != opcode.Label {
			continue
		}
		name := l.Arg(0)
		if name == "" {
			continue
		}
		if s, ok := e.labels[name]; ok {
			s.last = i
			e.labels[name] = s
		} else {
			e.labels[name] = span{first: i, last: i}
		}
	}

	return e
}

// Instructions returns the number of instruction lines, header excluded.
func (e *Engine) Instructions() int {
	if len(e.lines) == 0 {
		return 0
	}
	return len(e.lines) - 1
}

// Comments returns the number of raw lines containing '#' anywhere,
// including a '#' inside a string literal.
func (e *Engine) Comments() int {
	n := 0
	for _, r := range e.raw {
		if token.IsComment(r) {
			n++
		}
	}
	return n
}

// Labels returns the number of distinct label names declared.
func (e *Engine) Labels() int {
	return len(e.labels)
}

// Jumps returns the number of control transfers and returns.
func (e *Engine) Jumps() int {
	n := 0
	for _, l := range e.lines {
		if opcode.IsJumpOrReturn(l.Opcode()) {
			n++
		}
	}
	return n
}

// jumpCounts classifies every control transfer with a target.
//
// A jump is forward when its label is declared anywhere after it and
// backward when declared anywhere before it; a label declared on both
// sides counts in both tallies. A jump whose label is declared nowhere is
// bad and counts in neither.
func (e *Engine) jumpCounts() (forward, backward, bad int) {
	for i, l := range e.lines {
		if !opcode.IsControlTransfer(l.Opcode()) {
			continue
		}
		target := l.Arg(0)
		if target == "" {
			continue
		}

		s, ok := e.labels[target]
		if !ok {
			bad++
			continue
		}
		if s.last > i {
			forward++
		}
		if s.first < i {
			backward++
		}
	}
	return forward, backward, bad
}

// ForwardJumps returns the number of jumps to a label declared later.
func (e *Engine) ForwardJumps() int {
	f, _, _ := e.jumpCounts()
	return f
}

// BackwardJumps returns the number of jumps to a label declared earlier.
func (e *Engine) BackwardJumps() int {
	_, b, _ := e.jumpCounts()
	return b
}

// BadJumps returns the number of jumps to labels that are never declared.
func (e *Engine) BadJumps() int {
	_, _, bad := e.jumpCounts()
	return bad
}

// Frequent returns the opcodes ordered by descending occurrence count,
// ties broken alphabetically, joined with commas. The header line is
// excluded.
func (e *Engine) Frequent() string {
	if len(e.lines) < 2 {
		return ""
	}

	counts := make(map[string]int)
	for _, l := range e.lines[1:] {
		counts[l.Opcode()]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	return strings.Join(names, ",")
}
