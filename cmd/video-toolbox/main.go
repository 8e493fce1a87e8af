// Command video-toolbox is the CLI entrypoint for the media library scanner.
//
// It parses flags, validates configuration, and runs one of four modes:
// system diagnostics (--check), file list generation (--write-file-list),
// the decode health check (--health-check), or the inventory pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/xoChrisCo/video-toolbox/internal/check"
	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/display"
	"github.com/xoChrisCo/video-toolbox/internal/logging"
	"github.com/xoChrisCo/video-toolbox/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "video-toolbox: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "video-toolbox: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "video-toolbox: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	if cfg.InputDir != "" {
		if _, err := os.Stat(cfg.InputDir); err != nil {
			log.Error("Input not found: %s", cfg.InputDir)
			return 1
		}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return 1
	}
	// Retained sample clips carry video extensions, so an output directory
	// inside the scanned library would feed the next run its own clips.
	if cfg.KeepSamples && cfg.InputDir != "" {
		nested, err := outputInsideInput(cfg.InputDir, cfg.OutputDir)
		if err == nil && nested {
			log.Error("--keep-samples needs an output directory outside the library: %s", cfg.OutputDir)
			return 1
		}
	}

	if cfg.WriteFileList {
		if cfg.InputDir == "" {
			log.Error("--write-file-list needs an input directory to scan")
			return 1
		}
		if err := pipeline.WriteList(&cfg, log); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	log.Info("=== Video Toolbox v%s (%s) ===", version, commit)
	if cfg.FileList != "" {
		log.Info("In:  %s (file list)", cfg.FileList)
	} else {
		log.Info("In:  %s", cfg.InputDir)
	}
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("")

	// Fail fast if ffprobe, ffmpeg or the selected encoder are unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pipeline stops between files without losing the rows already written.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping after the current file…")
		cancel()
	}()

	// Phase 4: Run the selected pipeline.
	var rs pipeline.RunStats
	if cfg.HealthCheck {
		rs, err = pipeline.HealthCheck(ctx, &cfg, log)
	} else {
		rs, err = pipeline.Run(ctx, &cfg, log)
	}
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if rs.Failed > 0 {
		return 1
	}
	return 0
}

// outputInsideInput reports whether output resolves to a directory at or
// below input.
func outputInsideInput(input, output string) (bool, error) {
	inAbs, err := absPath(input)
	if err != nil {
		return false, err
	}
	outAbs, err := absPath(output)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(inAbs, outAbs)
	if err != nil {
		return false, err
	}
	outside := rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
	return !outside, nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
