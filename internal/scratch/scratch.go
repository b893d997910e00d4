// Package scratch manages the temporary directory holding the
// intermediate page images. The directory is acquired once, owned
// exclusively by the running process, and removed on every exit path.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
)

type Dir struct {
	path     string
	released bool
}

// New creates a uniquely-named temporary directory. The caller must
// arrange for Release to run on every exit path, normally via defer.
func New(pattern string) (*Dir, error) {
	path, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) Path() string {
	return d.path
}

func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Release removes the directory and everything in it. Safe to call more
// than once.
func (d *Dir) Release() error {
	if d.released {
		return nil
	}
	d.released = true
	return os.RemoveAll(d.path)
}
