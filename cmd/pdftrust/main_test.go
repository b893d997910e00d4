package main

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sora-grayscale/pdf-trusted-converter/pkg/models"
	"github.com/sora-grayscale/pdf-trusted-converter/pkg/report"
)

var _ = Describe("Summary", func() {
	var (
		out *bytes.Buffer
		rep *report.Reporter
		req models.ConversionRequest
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		rep = report.New(report.WithOutput(out), report.WithErrorOutput(out))
		req = models.ConversionRequest{OutputPath: "report.trusted.pdf"}
	})

	It("should report an optimized output", func() {
		printSummary(rep, req, models.ConversionResult{
			OriginalSizeBytes: 2048,
			OutputSizeBytes:   1024,
			PageCount:         3,
			DPIUsed:           300,
			Optimized:         true,
		})

		Expect(out.String()).To(ContainSubstring("report.trusted.pdf"))
		Expect(out.String()).To(ContainSubstring("pages: 3, rasterized at 300 DPI"))
		Expect(out.String()).To(ContainSubstring("output optimized with Ghostscript"))
	})

	It("should say when the unoptimized output was kept", func() {
		printSummary(rep, req, models.ConversionResult{
			PageCount: 1,
			DPIUsed:   300,
		})

		Expect(out.String()).To(ContainSubstring("output kept unoptimized"))
	})

	It("should report unreadable sizes as unknown", func() {
		Expect(formatSize(-1)).To(Equal("unknown"))
		Expect(formatSize(1024)).NotTo(Equal("unknown"))
	})
})
