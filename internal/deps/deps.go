// Package deps probes the environment for the external converters the
// pipeline delegates to. The pipeline must never start when any of them
// is missing.
package deps

import "os/exec"

// InstallHint is shown when required tools are missing.
const InstallHint = "sudo apt install imagemagick ghostscript"

// Tools holds the resolved paths of the external converters.
type Tools struct {
	// Magick is ImageMagick's entry point: `magick` on IM7, with a
	// fallback to the classic `convert` on IM6 installs.
	Magick string

	// Ghostscript is the `gs` binary used for output optimization.
	Ghostscript string
}

type Checker struct {
	lookPath func(string) (string, error)
}

type Option func(*Checker)

// WithLookPath overrides PATH resolution, for tests.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(c *Checker) {
		c.lookPath = lookPath
	}
}

func NewChecker(options ...Option) *Checker {
	c := &Checker{
		lookPath: exec.LookPath,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Check resolves every required tool. The second return value lists the
// human-readable names of whatever is missing; it is empty on success.
func (c *Checker) Check() (Tools, []string) {
	var tools Tools
	var missing []string

	if path, err := c.lookPath("magick"); err == nil {
		tools.Magick = path
	} else if path, err := c.lookPath("convert"); err == nil {
		tools.Magick = path
	} else {
		missing = append(missing, "ImageMagick (magick or convert)")
	}

	if path, err := c.lookPath("gs"); err == nil {
		tools.Ghostscript = path
	} else {
		missing = append(missing, "Ghostscript (gs)")
	}

	return tools, missing
}
