package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sora-grayscale/pdf-trusted-converter/pkg/report"
)

// stageTimeout bounds each external invocation. The converters normally
// finish in seconds; a stuck child should not hang the whole program.
const stageTimeout = 10 * time.Minute

// Runner executes one external command to completion. Arguments are
// passed as an explicit vector, never through a shell.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct {
	reporter *report.Reporter
}

func NewRunner(reporter *report.Reporter) Runner {
	return &execRunner{reporter: reporter}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, stageTimeout)
	defer cancel()

	r.reporter.Command(name, args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out after %v", name, stageTimeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
