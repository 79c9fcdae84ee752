package stats_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zurustar/ippcode/pkg/stats"
)

func lines(src string) []string {
	return strings.Split(strings.TrimSuffix(src, "\n"), "\n")
}

var _ = Describe("Engine", func() {
	Context("when counting instructions", func() {
		It("should exclude the header, blanks and comments", func() {
			e := stats.New(lines(`# intro
.IPPcode24

DEFVAR GF@a   # declare
    # indented comment
WRITE GF@a
`))
			Expect(e.Instructions()).To(Equal(2))
		})

		It("should never be negative", func() {
			Expect(stats.New(nil).Instructions()).To(Equal(0))
			Expect(stats.New([]string{"# only", ""}).Instructions()).To(Equal(0))
			Expect(stats.New([]string{".IPPcode24"}).Instructions()).To(Equal(0))
		})
	})

	Context("when counting comments", func() {
		It("should count every raw line holding a '#'", func() {
			e := stats.New(lines(`# a
.IPPcode24 # b
WRITE string@x
  #
WRITE string@y#z
`))
			Expect(e.Comments()).To(Equal(4))
		})
	})

	Context("when counting labels", func() {
		It("should count distinct names", func() {
			e := stats.New(lines(`.IPPcode24
LABEL a
LABEL b
label a
JUMP c
`))
			Expect(e.Labels()).To(Equal(2))
		})

		It("should treat names case-sensitively", func() {
			e := stats.New(lines(`.IPPcode24
LABEL loop
LABEL LOOP
`))
			Expect(e.Labels()).To(Equal(2))
		})
	})

	Context("when counting jumps", func() {
		It("should count control transfers and returns", func() {
			e := stats.New(lines(`.IPPcode24
LABEL l
JUMP l
JUMPIFEQ l GF@a int@1
JUMPIFNEQ l GF@a int@1
CALL l
RETURN
WRITE GF@a
`))
			Expect(e.Jumps()).To(Equal(5))
		})

		It("should classify forward and backward jumps", func() {
			e := stats.New(lines(`.IPPcode24
JUMP end
LABEL top
JUMP top
CALL top
LABEL end
`))
			Expect(e.ForwardJumps()).To(Equal(1))
			Expect(e.BackwardJumps()).To(Equal(2))
			Expect(e.BadJumps()).To(Equal(0))
		})

		It("should count a label declared on both sides in both directions", func() {
			e := stats.New(lines(`.IPPcode24
LABEL X
JUMP X
WRITE int@1
BREAK
LABEL X
`))
			Expect(e.ForwardJumps()).To(Equal(1))
			Expect(e.BackwardJumps()).To(Equal(1))
			Expect(e.BadJumps()).To(Equal(0))
		})

		It("should count jumps to undeclared labels as bad only", func() {
			e := stats.New(lines(`.IPPcode24
JUMP nowhere
JUMPIFEQ nowhere GF@a nil@nil
LABEL somewhere
`))
			Expect(e.BadJumps()).To(Equal(2))
			Expect(e.ForwardJumps()).To(Equal(0))
			Expect(e.BackwardJumps()).To(Equal(0))
		})

		It("should ignore a comment glued to the target", func() {
			e := stats.New(lines(`.IPPcode24
JUMP l#comment
LABEL l
`))
			Expect(e.ForwardJumps()).To(Equal(1))
		})

		It("should count a bare RETURN without classifying it", func() {
			e := stats.New(lines(`.IPPcode24
RETURN
JUMP
`))
			Expect(e.Jumps()).To(Equal(2))
			Expect(e.BadJumps()).To(Equal(0))
		})
	})

	Context("when ranking opcodes", func() {
		DescribeTable("should order by count then name",
			func(src string, want string) {
				Expect(stats.New(lines(src)).Frequent()).To(Equal(want))
			},
			Entry("descending count", ".IPPcode24\nMOVE GF@a int@1\nMOVE GF@a int@2\nADD GF@a GF@a int@1", "MOVE,ADD"),
			Entry("alphabetical ties", ".IPPcode24\nMOVE GF@a int@1\nADD GF@a GF@a int@1", "ADD,MOVE"),
			Entry("case folded", ".IPPcode24\nwrite int@1\nWrite int@2\nBREAK", "WRITE,BREAK"),
			Entry("header only", ".IPPcode24", ""),
			Entry("empty", "", ""),
		)
	})
})

var _ = Describe("Metric", func() {
	DescribeTable("should parse arguments",
		func(arg string, want stats.Metric) {
			m, err := stats.ParseMetric(arg)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(want))
		},
		Entry("long form", "--loc", stats.Metric{Kind: stats.Loc}),
		Entry("short form", "-badjumps", stats.Metric{Kind: stats.BadJumps}),
		Entry("print", "--print=hello", stats.Metric{Kind: stats.Print, Text: "hello"}),
		Entry("print with equals", "--print=a=b", stats.Metric{Kind: stats.Print, Text: "a=b"}),
		Entry("empty print", "--print=", stats.Metric{Kind: stats.Print}),
	)

	DescribeTable("should reject unknown arguments",
		func(arg string) {
			_, err := stats.ParseMetric(arg)
			Expect(err).To(MatchError(stats.ErrUnknownMetric))
		},
		Entry("unknown name", "--lines"),
		Entry("no dashes", "loc"),
		Entry("print without text", "--print"),
		Entry("value on a counter", "--loc=1"),
	)

	It("should render a request in order", func() {
		e := stats.New(lines(`.IPPcode24 # h
LABEL a
JUMP a
`))
		req := stats.Request{File: "out.txt", Metrics: []stats.Metric{
			{Kind: stats.Print, Text: "loc: "},
			{Kind: stats.Loc},
			{Kind: stats.Eol},
			{Kind: stats.Comments},
			{Kind: stats.Frequent},
			{Kind: stats.BackJumps},
			{Kind: stats.FwJumps},
		}}

		Expect(e.Render(req)).To(Equal([]string{"loc: ", "2\n", "\n", "1\n", "JUMP,LABEL\n", "1\n", "0\n"}))
	})

	It("should format back to its argument", func() {
		Expect(stats.Metric{Kind: stats.Jumps}.String()).To(Equal("--jumps"))
		Expect(stats.Metric{Kind: stats.Print, Text: "x"}.String()).To(Equal("--print=x"))
	})
})
