package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/ffmpeg"
	"github.com/xoChrisCo/video-toolbox/internal/logging"
	"github.com/xoChrisCo/video-toolbox/internal/naming"
	"github.com/xoChrisCo/video-toolbox/internal/probe"
	"github.com/xoChrisCo/video-toolbox/internal/stats"
)

// decodeGrace pads the decode watchdog past the sampled duration. A decode
// runs faster than realtime, so exceeding its own slice means a hang.
const decodeGrace = 5 * time.Second

// maxOutputExcerpt caps the stderr stored per CSV row. Badly corrupted
// files can emit megabytes of decoder noise.
const maxOutputExcerpt = 2000

var healthHeader = []string{
	"Filename", "Full Path", "Path", "Sample", "Start Time",
	"Error", "Kind", "Output", "Check Duration (s)",
}

// decodeResult is the outcome of one decode sample.
type decodeResult struct {
	seconds  float64
	stderr   string
	kinds    []string
	timedOut bool
	erred    bool
}

// HealthCheck decodes sample slices of every file and reports decoder
// errors. A file is healthy when every sample decodes with silent stderr;
// anything else is recorded with its classified error kinds.
func HealthCheck(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	started := time.Now()
	var rs RunStats

	files, _, _, err := sourceFiles(cfg)
	if err != nil {
		return rs, err
	}
	// Alphabetical by name, not by path: the point of the scan order is
	// that a title's files check back to back wherever they live.
	sort.Slice(files, func(i, j int) bool {
		a := strings.ToLower(filepath.Base(files[i]))
		b := strings.ToLower(filepath.Base(files[j]))
		if a == b {
			return files[i] < files[j]
		}
		return a < b
	})
	rs.Total = len(files)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return rs, fmt.Errorf("creating output directory: %w", err)
	}
	csvPath := filepath.Join(cfg.OutputDir,
		naming.HealthCheckFile(naming.RunStamp(started), cfg.SampleCount, cfg.SampleSeconds))
	f, err := os.Create(csvPath)
	if err != nil {
		return rs, fmt.Errorf("create health report %q: %w", csvPath, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(healthHeader); err != nil {
		return rs, fmt.Errorf("write health report header: %w", err)
	}
	rs.ReportPath = csvPath

	runID := uuid.New().String()
	log.Info("Health check: %d files, %d sample(s) per file", rs.Total, cfg.SampleCount)
	log.Info("Run ID: %s", runID)

	prober := probe.New()
	prober.Timeout = probeTimeout

	seed := cfg.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	kindCounts := stats.NewCounter()

	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted, stopping before file %d/%d", i+1, rs.Total)
			break
		}
		name := filepath.Base(path)
		if cfg.ShowProgress {
			log.Progress("[%d/%d] %s", i+1, rs.Total, name)
		}

		duration, err := prober.Duration(ctx, path)
		if err != nil || duration <= 0 {
			log.Warn("Could not determine duration for %s, skipping", path)
			rs.Skipped++
			continue
		}

		slice := duration
		if cfg.SampleSeconds > 0 && float64(cfg.SampleSeconds) < duration {
			slice = float64(cfg.SampleSeconds)
		}

		erred := false
		var fileKinds []string
		for s := 0; s < cfg.SampleCount; s++ {
			start := 0.0
			if s > 0 {
				if span := duration - slice; span > 0 {
					start = rng.Float64() * span
				}
			}

			res := decodeSample(ctx, path, start, slice)
			if res.erred {
				erred = true
				for _, k := range res.kinds {
					kindCounts.Inc(k)
					fileKinds = append(fileKinds, k)
				}
			}

			row := []string{
				name,
				path,
				filepath.Dir(path),
				strconv.Itoa(s + 1),
				strconv.FormatFloat(start, 'f', 2, 64),
				yesNo(res.erred),
				strings.Join(res.kinds, ", "),
				excerpt(res.stderr),
				strconv.FormatFloat(res.seconds, 'f', 2, 64),
			}
			if err := w.Write(row); err != nil {
				log.EndProgress()
				return rs, fmt.Errorf("write health report row: %w", err)
			}
			w.Flush()
		}

		if erred {
			rs.Failed++
			log.Error("[%d/%d] %s: %s", i+1, rs.Total, name, strings.Join(dedupKinds(fileKinds), ", "))
		} else {
			rs.Processed++
			log.Debug(cfg.Verbose, "[%d/%d] %s: clean", i+1, rs.Total, name)
		}
	}
	log.EndProgress()

	w.Flush()
	if err := w.Error(); err != nil {
		return rs, fmt.Errorf("flush health report: %w", err)
	}
	rs.Elapsed = time.Since(started)

	log.Info("==============================")
	log.Info("Checked: %d clean, %d with errors, %d skipped", rs.Processed, rs.Failed, rs.Skipped)
	if kindCounts.Len() > 0 {
		log.Info("Error kinds across all samples:")
		for _, e := range kindCounts.Entries() {
			log.Info("  %-20s %d", e.Key+":", e.Count)
		}
	}
	log.Info("Report: %s", csvPath)
	return rs, nil
}

// decodeSample decodes one slice to the null muxer and interprets the
// outcome. With "-v error" a healthy decode is silent, so any stderr at all
// marks the sample as erred; a watchdog abort does too.
func decodeSample(ctx context.Context, path string, start, slice float64) decodeResult {
	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(start, 'f', 2, 64),
		"-t", strconv.FormatFloat(slice, 'f', 2, 64),
		"-i", path,
		"-f", "null", "-",
	}

	began := time.Now()
	h, err := ffmpeg.Start(ctx, "ffmpeg", args...)
	if err != nil {
		return decodeResult{
			seconds: time.Since(began).Seconds(),
			stderr:  err.Error(),
			kinds:   []string{"exec failure"},
			erred:   true,
		}
	}

	budget := time.Duration(slice*float64(time.Second)) + decodeGrace
	out := h.WaitTimeout(budget)

	res := decodeResult{
		seconds:  time.Since(began).Seconds(),
		stderr:   strings.TrimSpace(out.Stderr),
		timedOut: out.TimedOut,
	}
	res.kinds = ffmpeg.ClassifyDecodeErrors(res.stderr)
	if res.timedOut {
		res.kinds = append([]string{"timeout"}, res.kinds...)
	}
	res.erred = res.timedOut || res.stderr != ""
	return res
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func excerpt(s string) string {
	if len(s) <= maxOutputExcerpt {
		return s
	}
	return s[:maxOutputExcerpt] + " [truncated]"
}

func dedupKinds(kinds []string) []string {
	seen := make(map[string]bool, len(kinds))
	var out []string
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
