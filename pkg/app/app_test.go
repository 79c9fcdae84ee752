package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sampleSource = `.IPPcode24 # header
DEFVAR GF@x
MOVE GF@x int@1
WRITE GF@x
`

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

var _ = Describe("Application", func() {
	var (
		mockCtrl *gomock.Controller
		mockSink *MockSink
		stdout   *bytes.Buffer
		stderr   *bytes.Buffer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockSink = NewMockSink(mockCtrl)
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		GinkgoT().Setenv("LOG_LEVEL", "")
		GinkgoT().Setenv("IPPCODE_ENCODING", "")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	run := func(source string, args ...string) error {
		application := New(
			WithStdin(strings.NewReader(source)),
			WithStdout(stdout),
			WithStderr(stderr),
			WithSink(mockSink),
		)
		return application.Run(args)
	}

	It("should translate a program to XML", func() {
		err := run(sampleSource)

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(HavePrefix(`<?xml version="1.0" encoding="UTF-8"?>`))
		Expect(stdout.String()).To(ContainSubstring(`<program language="IPPcode24">`))
		Expect(stdout.String()).To(ContainSubstring(`<instruction order="3" opcode="WRITE">`))
		Expect(stdout.String()).To(HaveSuffix("</program>\n"))
	})

	It("should print help", func() {
		err := run("", "--help")

		Expect(err).NotTo(HaveOccurred())
		Expect(ExitCode(err)).To(Equal(0))
		Expect(stdout.String()).To(ContainSubstring("--stats=FILE"))
	})

	It("should emit every statistics group", func() {
		mockSink.EXPECT().
			Emit("a.txt", []string{"3\n", "DEFVAR,MOVE,WRITE\n", "labels:", "0\n"}).
			Return(nil)
		mockSink.EXPECT().
			Emit("b.txt", []string{"\n", "0\n"}).
			Return(nil)

		err := run(sampleSource,
			"--stats=a.txt", "--loc", "--frequent", "--print=labels:", "--labels",
			"--stats=b.txt", "--eol", "--jumps")

		Expect(err).NotTo(HaveOccurred())
	})

	It("should report a statistics failure as an output error", func() {
		mockSink.EXPECT().
			Emit("a.txt", gomock.Any()).
			Return(errors.New("permission denied"))

		err := run(sampleSource, "--stats=a.txt", "--loc")

		Expect(err).To(MatchError(ErrOutput))
		Expect(ExitCode(err)).To(Equal(12))
		Expect(stdout.Len()).To(BeZero())
	})

	It("should write no XML when one of several groups fails", func() {
		mockSink.EXPECT().
			Emit("a.txt", gomock.Any()).
			Return(nil).
			AnyTimes()
		mockSink.EXPECT().
			Emit("b.txt", gomock.Any()).
			Return(errors.New("read-only file system"))

		err := run(".IPPcode24\nBREAK\n", "--stats=a.txt", "--loc", "--stats=b.txt", "--jumps")

		Expect(ExitCode(err)).To(Equal(12))
		Expect(stdout.String()).To(BeEmpty())
	})

	It("should log the source context of a failure at debug level", func() {
		err := run(".IPPcode24\nFOO GF@x\n", "--log-level", "debug")

		Expect(ExitCode(err)).To(Equal(22))
		Expect(stderr.String()).To(ContainSubstring("Translation failed at"))
		Expect(stderr.String()).To(ContainSubstring("context="))
		Expect(stderr.String()).To(ContainSubstring("FOO GF@x"))
	})

	It("should report a failing stdout as an output error", func() {
		application := New(
			WithStdin(strings.NewReader(sampleSource)),
			WithStdout(failingWriter{}),
			WithStderr(stderr),
			WithSink(mockSink),
		)

		err := application.Run(nil)

		Expect(ExitCode(err)).To(Equal(12))
	})

	DescribeTable("should fail without output",
		func(source string, code int) {
			err := run(source, "--stats=a.txt", "--loc")

			Expect(err).To(HaveOccurred())
			Expect(ExitCode(err)).To(Equal(code))
			Expect(stdout.Len()).To(BeZero())
			Expect(stderr.String()).To(ContainSubstring("Translation failed"))
		},
		Entry("missing header", "DEFVAR GF@x\n", 21),
		Entry("wrong header", ".IPPcode23\nBREAK\n", 21),
		Entry("unknown opcode", ".IPPcode24\nFOO GF@x\n", 22),
		Entry("bad operand", ".IPPcode24\nDEFVAR int@1\n", 23),
		Entry("duplicate header", ".IPPcode24\n.IPPcode24\n", 23),
	)

	DescribeTable("should reject bad parameters",
		func(code int, args []string) {
			err := run(sampleSource, args...)

			Expect(ExitCode(err)).To(Equal(code))
			Expect(stdout.Len()).To(BeZero())
		},
		Entry("help with other parameters", 10, []string{"--help", "--stats=a.txt"}),
		Entry("metric without group", 10, []string{"--loc"}),
		Entry("unknown metric", 10, []string{"--stats=a.txt", "--size"}),
		Entry("duplicate statistics file", 12, []string{"--stats=a.txt", "--stats=a.txt"}),
	)

	Context("with an input file", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should read the file instead of stdin", func() {
			path := filepath.Join(dir, "Prog.ipp")
			Expect(os.WriteFile(path, []byte(sampleSource), 0644)).To(Succeed())

			err := run("not a program", "--input", filepath.Join(dir, "prog.IPP"))

			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(ContainSubstring(`opcode="DEFVAR"`))
		})

		It("should report a missing file as an input error", func() {
			err := run(sampleSource, "--input", filepath.Join(dir, "missing.ipp"))

			Expect(err).To(MatchError(ErrInput))
			Expect(ExitCode(err)).To(Equal(11))
		})

		It("should write statistics files with the default sink", func() {
			out := filepath.Join(dir, "stats.txt")
			application := New(
				WithStdin(strings.NewReader(sampleSource)),
				WithStdout(stdout),
				WithStderr(stderr),
			)

			err := application.Run([]string{"--stats=" + out, "--loc", "--comments"})

			Expect(err).NotTo(HaveOccurred())
			data, err := os.ReadFile(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("3\n1\n"))
		})
	})

	It("should log milestones at info level", func() {
		err := run(sampleSource, "--log-level", "info")

		Expect(err).NotTo(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring("Program translated successfully"))
		Expect(stderr.String()).To(ContainSubstring("instructions=3"))
	})
})
