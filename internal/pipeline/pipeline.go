// Package pipeline runs the conversion stages in order: validate the
// input, rasterize it to page images, reassemble the images into a new
// PDF, optimize the result, and derive the summary. Rasterization and
// reassembly are delegated to ImageMagick, optimization to Ghostscript.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sora-grayscale/pdf-trusted-converter/internal/deps"
	"github.com/sora-grayscale/pdf-trusted-converter/internal/scratch"
	"github.com/sora-grayscale/pdf-trusted-converter/pkg/models"
	"github.com/sora-grayscale/pdf-trusted-converter/pkg/report"
)

const (
	pdfMIMEType = "application/pdf"

	// Zero-padded so lexicographic order equals page order.
	pageImagePattern = "page-%04d.png"
	pageImagePrefix  = "page-"
	pageImageExt     = ".png"

	optimizedScratchName  = "optimized.pdf"
	pdfCompatibilityLevel = "1.4"
)

type Pipeline struct {
	request  models.ConversionRequest
	tools    deps.Tools
	reporter *report.Reporter
	runner   Runner

	detectMIME func(path string) (string, error)
	countPages func(path string) (int, error)
}

type Option func(*Pipeline)

// WithRunner replaces the exec-backed runner, for tests.
func WithRunner(runner Runner) Option {
	return func(p *Pipeline) {
		p.runner = runner
	}
}

// WithPageCounter replaces the output page counter, for tests.
func WithPageCounter(countPages func(path string) (int, error)) Option {
	return func(p *Pipeline) {
		p.countPages = countPages
	}
}

func New(request models.ConversionRequest, tools deps.Tools, reporter *report.Reporter, options ...Option) *Pipeline {
	p := &Pipeline{
		request:    request,
		tools:      tools,
		reporter:   reporter,
		detectMIME: detectFileMIME,
		countPages: countPDFPages,
	}
	p.runner = NewRunner(reporter)

	for _, opt := range options {
		opt(p)
	}

	return p
}

func detectFileMIME(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

func countPDFPages(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// ValidateInput confirms the input exists and really is a PDF, by content
// inspection rather than extension. It runs before the scratch directory
// is even created. Structural problems that may still rasterize fine are
// reported as warnings, not failures.
func (p *Pipeline) ValidateInput() error {
	info, err := os.Stat(p.request.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", p.request.InputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input is a directory, not a PDF: %s", p.request.InputPath)
	}

	mime, err := p.detectMIME(p.request.InputPath)
	if err != nil {
		return fmt.Errorf("cannot inspect input file: %w", err)
	}
	if mime != pdfMIMEType {
		return fmt.Errorf("input is not a PDF (detected %s): %s", mime, p.request.InputPath)
	}

	if err := api.ValidateFile(p.request.InputPath, nil); err != nil {
		p.reporter.Warn("input has structural issues, continuing anyway: %v", err)
	} else if pages, err := api.PageCountFile(p.request.InputPath); err == nil {
		p.reporter.Info("input has %d page(s)", pages)
	}

	return nil
}

// Run executes the remaining stages against an already-validated input.
// Rasterization and reassembly failures abort the run; optimization and
// verification degrade to warnings.
func (p *Pipeline) Run(ctx context.Context, dir *scratch.Dir) (models.ConversionResult, error) {
	var result models.ConversionResult

	p.reporter.Info("rasterizing %s at %d DPI", p.request.InputPath, p.request.DPI)
	images, err := p.rasterize(ctx, dir)
	if err != nil {
		return result, err
	}
	p.reporter.Info("rasterized %d page(s)", images.Count())

	p.reporter.Info("reassembling pages into %s", p.request.OutputPath)
	if err := p.reassemble(ctx, images); err != nil {
		return result, err
	}

	optimized := p.optimize(ctx, dir)
	p.verify(images.Count())

	return models.ConversionResult{
		OriginalSizeBytes: fileSize(p.request.InputPath),
		OutputSizeBytes:   fileSize(p.request.OutputPath),
		PageCount:         images.Count(),
		DPIUsed:           p.request.DPI,
		Optimized:         optimized,
	}, nil
}

// rasterize writes one image per page into the scratch directory and
// collects the produced files in page order.
func (p *Pipeline) rasterize(ctx context.Context, dir *scratch.Dir) (models.PageImageSet, error) {
	var images models.PageImageSet

	args := []string{
		"-density", strconv.Itoa(p.request.DPI),
		p.request.InputPath,
		dir.Join(pageImagePattern),
	}
	if err := p.runner.Run(ctx, p.tools.Magick, args...); err != nil {
		return images, fmt.Errorf("no page images were generated: %w", err)
	}

	images, err := collectPageImages(dir)
	if err != nil {
		return images, err
	}
	if images.Count() == 0 {
		return images, errors.New("no page images were generated")
	}

	return images, nil
}

// collectPageImages lists the rasterizer's output itself instead of
// trusting any tool-side globbing, so reassembly order is exactly the
// sorted zero-padded names.
func collectPageImages(dir *scratch.Dir) (models.PageImageSet, error) {
	var images models.PageImageSet

	entries, err := os.ReadDir(dir.Path())
	if err != nil {
		return images, fmt.Errorf("cannot read scratch directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, pageImagePrefix) || !strings.HasSuffix(name, pageImageExt) {
			continue
		}
		images.Paths = append(images.Paths, dir.Join(name))
	}
	sort.Strings(images.Paths)

	return images, nil
}

func (p *Pipeline) reassemble(ctx context.Context, images models.PageImageSet) error {
	args := append(append([]string{}, images.Paths...), p.request.OutputPath)
	if err := p.runner.Run(ctx, p.tools.Magick, args...); err != nil {
		return fmt.Errorf("failed to assemble output PDF: %w", err)
	}
	return nil
}

// optimize rewrites the output through Ghostscript's pdfwrite device.
// Best-effort: on any failure the reassembled output stands and the run
// still succeeds.
func (p *Pipeline) optimize(ctx context.Context, dir *scratch.Dir) bool {
	optimizedPath := dir.Join(optimizedScratchName)

	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=" + pdfCompatibilityLevel,
		"-dPDFSETTINGS=/ebook",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + optimizedPath,
		p.request.OutputPath,
	}
	if err := p.runner.Run(ctx, p.tools.Ghostscript, args...); err != nil {
		p.reporter.Warn("optimization failed, keeping unoptimized output: %v", err)
		return false
	}

	if err := replaceFile(optimizedPath, p.request.OutputPath); err != nil {
		p.reporter.Warn("could not apply optimized output, keeping unoptimized output: %v", err)
		return false
	}

	return true
}

// replaceFile moves src over dst. Rename fails across filesystems (the
// scratch dir usually lives on tmpfs), so fall back to copying next to
// dst and renaming within its directory.
func replaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dst)
}

// verify opens the finished output and compares its page count against
// the number of rasterized images. Observational only.
func (p *Pipeline) verify(expectedPages int) {
	pages, err := p.countPages(p.request.OutputPath)
	if err != nil {
		p.reporter.Warn("could not verify output PDF: %v", err)
		return
	}
	if pages != expectedPages {
		p.reporter.Warn("output has %d page(s), expected %d", pages, expectedPages)
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}
