package stats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownMetric is returned by ParseMetric for unrecognised arguments.
var ErrUnknownMetric = errors.New("unknown statistics parameter")

// Kind identifies a metric.
type Kind string

// Metric kinds, named after their command-line flags.
const (
	Loc       Kind = "loc"
	Comments  Kind = "comments"
	Labels    Kind = "labels"
	Jumps     Kind = "jumps"
	FwJumps   Kind = "fwjumps"
	BackJumps Kind = "backjumps"
	BadJumps  Kind = "badjumps"
	Frequent  Kind = "frequent"
	Print     Kind = "print"
	Eol       Kind = "eol"
)

var kinds = map[Kind]bool{
	Loc: true, Comments: true, Labels: true, Jumps: true, FwJumps: true,
	BackJumps: true, BadJumps: true, Frequent: true, Eol: true,
}

// Metric is one entry of a request. Text is only used by Print.
type Metric struct {
	Kind Kind
	Text string
}

func (m Metric) String() string {
	if m.Kind == Print {
		return "--print=" + m.Text
	}
	return "--" + string(m.Kind)
}

// ParseMetric parses "--name" or "-name"; "--print=TEXT" keeps everything
// after the first '='.
func ParseMetric(arg string) (Metric, error) {
	name, ok := trimDashes(arg)
	if !ok {
		return Metric{}, fmt.Errorf("%w: %s", ErrUnknownMetric, arg)
	}

	if text, found := strings.CutPrefix(name, string(Print)+"="); found {
		return Metric{Kind: Print, Text: text}, nil
	}
	if kinds[Kind(name)] {
		return Metric{Kind: Kind(name)}, nil
	}
	return Metric{}, fmt.Errorf("%w: %s", ErrUnknownMetric, arg)
}

func trimDashes(arg string) (string, bool) {
	if s, ok := strings.CutPrefix(arg, "--"); ok {
		return s, true
	}
	if s, ok := strings.CutPrefix(arg, "-"); ok {
		return s, true
	}
	return "", false
}

// Request is an ordered list of metrics written to one output file.
type Request struct {
	File    string
	Metrics []Metric
}

// Value returns the output text of one metric. Counting metrics and the
// frequency list end with a newline; Eol is a bare newline and Print is
// its text unchanged.
func (e *Engine) Value(m Metric) string {
	switch m.Kind {
	case Loc:
		return line(e.Instructions())
	case Comments:
		return line(e.Comments())
	case Labels:
		return line(e.Labels())
	case Jumps:
		return line(e.Jumps())
	case FwJumps:
		return line(e.ForwardJumps())
	case BackJumps:
		return line(e.BackwardJumps())
	case BadJumps:
		return line(e.BadJumps())
	case Frequent:
		return e.Frequent() + "\n"
	case Eol:
		return "\n"
	case Print:
		return m.Text
	}
	return ""
}

// Render computes every metric of a request in order.
func (e *Engine) Render(req Request) []string {
	values := make([]string, len(req.Metrics))
	for i, m := range req.Metrics {
		values[i] = e.Value(m)
	}
	return values
}

func line(n int) string {
	return strconv.Itoa(n) + "\n"
}
