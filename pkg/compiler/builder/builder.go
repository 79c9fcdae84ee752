// Package builder folds validated IPPcode24 instructions into a Program.
package builder

import (
	"errors"
	"fmt"

	"github.com/zurustar/ippcode/pkg/compiler/ast"
	"github.com/zurustar/ippcode/pkg/compiler/parser"
	"github.com/zurustar/ippcode/pkg/compiler/token"
)

// ErrMissingHeader is returned when the first non-blank, non-comment line
// is not the program header, or when there is no such line.
var ErrMissingHeader = errors.New("missing or invalid header")

// State is the position of a Builder in its build.
type State int

const (
	StateAwaitHeader State = iota
	StateEmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitHeader:
		return "AwaitHeader"
	case StateEmitting:
		return "Emitting"
	case StateDone:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// HeaderError reports a missing or malformed header.
type HeaderError struct {
	Line int    // 0 when the input has no content lines
	Got  string // the text found instead of the header
}

func (e *HeaderError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: empty program", ErrMissingHeader)
	}
	return fmt.Sprintf("%v at line %d: expected %s, got %q", ErrMissingHeader, e.Line, ast.Header, e.Got)
}

func (e *HeaderError) Unwrap() error {
	return ErrMissingHeader
}

// Builder owns the state of a single build. A Builder must not be shared
// between concurrent builds; every call to Build starts from scratch.
type Builder struct {
	state   State
	order   int
	program *ast.Program
}

// New creates a Builder in the AwaitHeader state.
func New() *Builder {
	return &Builder{state: StateAwaitHeader}
}

// State returns the current state.
func (b *Builder) State() State {
	return b.state
}

// Build validates raw source lines and returns the program they describe.
// The first failing line aborts the build; no partial program is returned.
func (b *Builder) Build(raw []string) (*ast.Program, error) {
	b.reset()

	for _, line := range token.Filter(raw) {
		if err := b.feed(line); err != nil {
			return nil, err
		}
	}

	if b.state == StateAwaitHeader {
		return nil, &HeaderError{}
	}

	b.state = StateDone
	return b.program, nil
}

func (b *Builder) reset() {
	b.state = StateAwaitHeader
	b.order = 0
	b.program = &ast.Program{Language: ast.Language}
}

// feed advances the state machine by one content line.
func (b *Builder) feed(line token.Line) error {
	switch b.state {
	case StateAwaitHeader:
		if len(line.Tokens) != 1 || !parser.IsHeader(line.Tokens[0]) {
			return &HeaderError{Line: line.Number, Got: line.Text}
		}
		b.state = StateEmitting
		return nil

	case StateEmitting:
		in, err := parser.ParseInstruction(line)
		if err != nil {
			return err
		}
		b.order++
		in.Order = b.order
		b.program.Instructions = append(b.program.Instructions, in)
		return nil
	}

	return fmt.Errorf("builder in state %s cannot accept input", b.state)
}

// Build is a convenience wrapper creating a fresh Builder.
func Build(raw []string) (*ast.Program, error) {
	return New().Build(raw)
}
