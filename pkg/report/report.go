package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter renders user-facing progress messages. It is purely
// observational: nothing in the pipeline consults it for decisions.
// Info and Success go to the output stream, Warn and Error to the
// error stream.
type Reporter struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

type Option func(*Reporter)

func WithOutput(w io.Writer) Option {
	return func(r *Reporter) {
		r.out = w
	}
}

func WithErrorOutput(w io.Writer) Option {
	return func(r *Reporter) {
		r.errOut = w
	}
}

func WithVerbose(verbose bool) Option {
	return func(r *Reporter) {
		r.verbose = verbose
	}
}

func New(options ...Option) *Reporter {
	r := &Reporter{
		out:     os.Stdout,
		errOut:  os.Stderr,
		verbose: false,
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

func (r *Reporter) SetVerbose(verbose bool) {
	r.verbose = verbose
}

func (r *Reporter) Verbose() bool {
	return r.verbose
}

var (
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func (r *Reporter) Info(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", infoColor.Sprint("[*]"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Success(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", successColor.Sprint("[+]"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Warn(format string, args ...interface{}) {
	fmt.Fprintf(r.errOut, "%s %s\n", warnColor.Sprint("[!]"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Error(format string, args ...interface{}) {
	fmt.Fprintf(r.errOut, "%s %s\n", errorColor.Sprint("[x]"), fmt.Sprintf(format, args...))
}

// Command echoes an external invocation before it runs. Only active in
// verbose mode; has no effect on control flow.
func (r *Reporter) Command(name string, args []string) {
	if !r.verbose {
		return
	}
	line := name
	for _, arg := range args {
		line += " " + arg
	}
	fmt.Fprintf(r.out, "%s $ %s\n", infoColor.Sprint("[*]"), line)
}
