package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Prober runs ffprobe against media files. The zero value is not usable;
// construct with New.
type Prober struct {
	Bin     string        // ffprobe binary. Default: "ffprobe" from PATH.
	Verbose bool          // When set, ffprobe logs errors instead of staying quiet.
	Timeout time.Duration // Per-file limit; zero means no limit.
}

// New returns a Prober using the ffprobe binary from PATH.
func New() *Prober {
	return &Prober{Bin: "ffprobe"}
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// document. One invocation per file; tool failures are reported to the
// caller, never retried here.
func (p *Prober) Probe(ctx context.Context, path string) (*Document, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	loglevel := "quiet"
	if p.Verbose {
		loglevel = "error"
	}
	cmd := exec.CommandContext(ctx, p.Bin,
		"-v", loglevel,
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseDocument(out)
}

// Duration runs a minimal duration-only probe, used by the health-check scan
// where the full document is not needed.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, p.Bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", path, err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: unparseable output %q", path, strings.TrimSpace(string(out)))
	}
	return d, nil
}

// ParseDocument converts raw ffprobe JSON output into a Document.
// Exported for testing without a real ffprobe binary.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	doc.Raw = data
	return &doc, nil
}
