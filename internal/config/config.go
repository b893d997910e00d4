// Package config turns the raw CLI arguments into a validated, immutable
// ConversionRequest. All policy about flags, output naming and the
// overwrite prompt lives here; the pipeline never looks at os.Args.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sora-grayscale/pdf-trusted-converter/pkg/models"
)

const (
	DefaultDPI = 300
	MinDPI     = 72
	MaxDPI     = 600

	// TrustedSuffix replaces the input's last extension when the output
	// name is derived rather than given.
	TrustedSuffix = ".trusted.pdf"
)

var (
	// ErrUsage marks argument errors; the usage text has already been
	// printed when it is returned.
	ErrUsage = errors.New("invalid usage")

	// ErrHelp is returned after printing the help text.
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned when --version was given.
	ErrVersion = errors.New("version requested")

	// ErrCancelled is returned when the user declines the overwrite
	// prompt. Callers must treat it as a clean exit, not a failure.
	ErrCancelled = errors.New("cancelled by user")
)

type Parser struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type Option func(*Parser)

func WithInput(r io.Reader) Option {
	return func(p *Parser) {
		p.stdin = r
	}
}

func WithOutput(w io.Writer) Option {
	return func(p *Parser) {
		p.stdout = w
	}
}

func WithErrorOutput(w io.Writer) Option {
	return func(p *Parser) {
		p.stderr = w
	}
}

func NewParser(options ...Option) *Parser {
	p := &Parser{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Parse validates args and resolves the output path. On usage errors the
// usage text goes to the error output and the returned error wraps
// ErrUsage. DPI validation happens before any file I/O.
func (p *Parser) Parse(args []string) (models.ConversionRequest, error) {
	var req models.ConversionRequest

	fs := pflag.NewFlagSet("pdftrust", pflag.ContinueOnError)
	fs.SetOutput(p.stderr)
	fs.Usage = func() {
		p.printUsage(p.stderr)
	}

	dpi := fs.IntP("dpi", "d", DefaultDPI, "rasterization resolution")
	batch := fs.BoolP("batch", "b", false, "derive output name from input name")
	verbose := fs.BoolP("verbose", "v", false, "echo external commands")
	help := fs.BoolP("help", "h", false, "show help")
	showVersion := fs.Bool("version", false, "print version information")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(p.stderr, "error: %v\n\n", err)
		p.printUsage(p.stderr)
		return req, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *help {
		p.printUsage(p.stdout)
		return req, ErrHelp
	}
	if *showVersion {
		req.Verbose = *verbose
		return req, ErrVersion
	}

	if *dpi < MinDPI || *dpi > MaxDPI {
		return req, p.usageError("dpi must be between %d and %d, got %d", MinDPI, MaxDPI, *dpi)
	}

	positionals := fs.Args()
	switch {
	case len(positionals) == 0:
		return req, p.usageError("input file is required")
	case len(positionals) > 2:
		return req, p.usageError("too many arguments: %s", strings.Join(positionals[2:], " "))
	}

	req = models.ConversionRequest{
		InputPath: positionals[0],
		DPI:       *dpi,
		Verbose:   *verbose,
		BatchMode: *batch,
	}

	// Batch mode always derives the name, even over an explicit output.
	switch {
	case req.BatchMode:
		req.OutputPath = derivedOutputPath(req.InputPath)
	case len(positionals) == 2:
		req.OutputPath = positionals[1]
	default:
		req.OutputPath = derivedOutputPath(req.InputPath)
	}

	if err := p.confirmOverwrite(req.OutputPath); err != nil {
		return req, err
	}

	return req, nil
}

func (p *Parser) usageError(format string, args ...interface{}) error {
	fmt.Fprintf(p.stderr, "error: %s\n\n", fmt.Sprintf(format, args...))
	p.printUsage(p.stderr)
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// derivedOutputPath strips the input's last extension and appends the
// trusted suffix: report.pdf -> report.trusted.pdf.
func derivedOutputPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + TrustedSuffix
}

func (p *Parser) confirmOverwrite(outputPath string) error {
	if _, err := os.Stat(outputPath); err != nil {
		return nil
	}

	fmt.Fprintf(p.stdout, "Output file %s already exists. Overwrite? [y/N] ", outputPath)

	answer, err := bufio.NewReader(p.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return ErrCancelled
	}
}

func (p *Parser) printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: pdftrust [OPTIONS] <input.pdf> [output.pdf]

Rasterizes every page of a PDF and rebuilds a new PDF from the page
images, discarding scripts, forms, embedded files and links along the
way. Requires ImageMagick and Ghostscript.

Options:
  -d, --dpi DPI    rasterization resolution, %d..%d (default %d)
  -b, --batch      always name the output <input-basename>%s,
                   ignoring any explicit output argument
  -v, --verbose    echo every external command before running it
  -h, --help       show this help and exit
      --version    print version information and exit
`, MinDPI, MaxDPI, DefaultDPI, TrustedSuffix)
}
