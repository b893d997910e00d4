package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/sora-grayscale/pdf-trusted-converter/internal/config"
	"github.com/sora-grayscale/pdf-trusted-converter/internal/deps"
	"github.com/sora-grayscale/pdf-trusted-converter/internal/pipeline"
	"github.com/sora-grayscale/pdf-trusted-converter/internal/scratch"
	"github.com/sora-grayscale/pdf-trusted-converter/pkg/models"
	"github.com/sora-grayscale/pdf-trusted-converter/pkg/report"
	"github.com/sora-grayscale/pdf-trusted-converter/pkg/version"
)

func main() {
	// Everything happens inside run so deferred cleanup still executes
	// before the process exits.
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rep := report.New()

	req, err := config.NewParser().Parse(args)
	switch {
	case errors.Is(err, config.ErrHelp):
		return 0
	case errors.Is(err, config.ErrVersion):
		if req.Verbose {
			fmt.Print(version.GetDetailedVersionInfo())
		} else {
			fmt.Println(version.GetVersionInfo())
		}
		return 0
	case errors.Is(err, config.ErrCancelled):
		rep.Info("cancelled, existing output left untouched")
		return 0
	case err != nil:
		return 1
	}
	rep.SetVerbose(req.Verbose)

	tools, missing := deps.NewChecker().Check()
	if len(missing) > 0 {
		rep.Error("missing required tools: %s", strings.Join(missing, ", "))
		rep.Info("install them with: %s", deps.InstallHint)
		return 1
	}

	pipe := pipeline.New(req, tools, rep)
	if err := pipe.ValidateInput(); err != nil {
		rep.Error("%v", err)
		return 1
	}

	// Cancel in-flight external commands on Ctrl-C; the deferred Release
	// then removes the scratch directory on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := scratch.New("pdftrust-*")
	if err != nil {
		rep.Error("%v", err)
		return 1
	}
	defer dir.Release()

	result, err := pipe.Run(ctx, dir)
	if err != nil {
		rep.Error("%v", err)
		return 1
	}

	printSummary(rep, req, result)
	return 0
}

func printSummary(rep *report.Reporter, req models.ConversionRequest, result models.ConversionResult) {
	rep.Success("sanitized PDF written to %s", req.OutputPath)
	rep.Info("pages: %d, rasterized at %d DPI", result.PageCount, result.DPIUsed)
	rep.Info("size: %s -> %s", formatSize(result.OriginalSizeBytes), formatSize(result.OutputSizeBytes))
	if result.Optimized {
		rep.Info("output optimized with Ghostscript")
	} else {
		rep.Info("output kept unoptimized")
	}
}

func formatSize(size int64) string {
	if !models.SizeKnown(size) {
		return "unknown"
	}
	return humanize.Bytes(uint64(size))
}
