package stats_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zurustar/ippcode/pkg/stats"
)

type recordingSink struct {
	mu      sync.Mutex
	emitted map[string][]string
	fail    map[string]error
}

func (s *recordingSink) Emit(file string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[file]; err != nil {
		return err
	}
	if s.emitted == nil {
		s.emitted = make(map[string][]string)
	}
	s.emitted[file] = values
	return nil
}

var _ = Describe("Report", func() {
	var engine *stats.Engine

	BeforeEach(func() {
		engine = stats.New(lines(`.IPPcode24
DEFVAR GF@a
LABEL l
JUMP l
`))
	})

	It("should emit each request to its own file", func() {
		sink := &recordingSink{}
		reqs := []stats.Request{
			{File: "a", Metrics: []stats.Metric{{Kind: stats.Loc}}},
			{File: "b", Metrics: []stats.Metric{{Kind: stats.Labels}, {Kind: stats.Jumps}}},
			{File: "c"},
		}

		Expect(stats.Report(context.Background(), engine, reqs, sink)).To(Succeed())
		Expect(sink.emitted).To(HaveLen(3))
		Expect(sink.emitted["a"]).To(Equal([]string{"3\n"}))
		Expect(sink.emitted["b"]).To(Equal([]string{"1\n", "1\n"}))
		Expect(sink.emitted["c"]).To(BeEmpty())
	})

	It("should return the sink failure", func() {
		boom := errors.New("boom")
		sink := &recordingSink{fail: map[string]error{"b": boom}}
		reqs := []stats.Request{{File: "a"}, {File: "b"}}

		err := stats.Report(context.Background(), engine, reqs, sink)
		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("statistics b"))
	})

	It("should not emit when the context is already cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sink := &recordingSink{}

		err := stats.Report(ctx, engine, []stats.Request{{File: "a"}}, sink)
		Expect(err).To(MatchError(context.Canceled))
		Expect(sink.emitted).To(BeEmpty())
	})

	Context("with FileSink", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should replace previous file content", func() {
			path := filepath.Join(dir, "stats.txt")
			Expect(os.WriteFile(path, []byte("stale content\n"), 0644)).To(Succeed())

			reqs := []stats.Request{{File: path, Metrics: []stats.Metric{
				{Kind: stats.Print, Text: "fw="}, {Kind: stats.FwJumps}, {Kind: stats.Print, Text: "back="}, {Kind: stats.BackJumps},
			}}}
			Expect(stats.Report(context.Background(), engine, reqs, stats.FileSink{})).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("fw=0\nback=1\n"))
		})

		It("should fail for an unwritable path", func() {
			reqs := []stats.Request{{File: filepath.Join(dir, "missing", "stats.txt")}}
			Expect(stats.Report(context.Background(), engine, reqs, stats.FileSink{})).NotTo(Succeed())
		})
	})
})
