package report_test

import (
	"bytes"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sora-grayscale/pdf-trusted-converter/pkg/report"
)

var _ = Describe("Reporter", func() {
	var (
		out    *bytes.Buffer
		errOut *bytes.Buffer
		rep    *report.Reporter
	)

	BeforeEach(func() {
		color.NoColor = true
		out = &bytes.Buffer{}
		errOut = &bytes.Buffer{}
		rep = report.New(
			report.WithOutput(out),
			report.WithErrorOutput(errOut),
		)
	})

	Context("severity routing", func() {
		It("should send info and success to the output stream", func() {
			rep.Info("processing %s", "input.pdf")
			rep.Success("done")

			Expect(out.String()).To(ContainSubstring("processing input.pdf"))
			Expect(out.String()).To(ContainSubstring("done"))
			Expect(errOut.String()).To(BeEmpty())
		})

		It("should send warnings and errors to the error stream", func() {
			rep.Warn("optimizer unavailable")
			rep.Error("conversion failed")

			Expect(errOut.String()).To(ContainSubstring("optimizer unavailable"))
			Expect(errOut.String()).To(ContainSubstring("conversion failed"))
			Expect(out.String()).To(BeEmpty())
		})

		It("should mark each severity distinctly", func() {
			rep.Info("a")
			rep.Success("b")
			rep.Warn("c")
			rep.Error("d")

			Expect(out.String()).To(ContainSubstring("[*] a"))
			Expect(out.String()).To(ContainSubstring("[+] b"))
			Expect(errOut.String()).To(ContainSubstring("[!] c"))
			Expect(errOut.String()).To(ContainSubstring("[x] d"))
		})
	})

	Context("command echoing", func() {
		It("should stay silent when not verbose", func() {
			rep.Command("gs", []string{"-dBATCH", "in.pdf"})
			Expect(out.String()).To(BeEmpty())
		})

		It("should echo the full command line when verbose", func() {
			rep.SetVerbose(true)
			rep.Command("gs", []string{"-dBATCH", "in.pdf"})
			Expect(out.String()).To(ContainSubstring("gs -dBATCH in.pdf"))
		})
	})
})
