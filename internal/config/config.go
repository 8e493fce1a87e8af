// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Issue-detection thresholds and sampler tier cutoffs are
// configurable here but default to the values the original scripts were tuned
// with for the Plex-serving library; change them only for a different policy.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// HwAccel selects the transcode path used by the sampler.
type HwAccel string

const (
	HwNone         HwAccel = "none"            // Software x264 (default).
	HwQSV          HwAccel = "qsv"             // Intel Quick Sync.
	HwVideoToolbox HwAccel = "videotoolbox"    // Apple VideoToolbox.
	HwPlex         HwAccel = "plex-transcoder" // Plex's bundled transcoder binary.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it. Fields are grouped by concern with inline documentation of
// defaults.
type Config struct {
	// Paths. InputDir comes from the positional arg; OutputDir holds the
	// CSV, statistics and log files and defaults to "output".
	InputDir  string
	OutputDir string

	// Discovery.
	Extensions    []string // Default: mkv, mp4, avi, mov (lowercase, no dot).
	FileList      string   // Process paths from this list; resumes at its cursor line.
	WriteFileList bool     // Generate the file list under OutputDir and exit.

	// Record output.
	Delimiter string // CSV delimiter. Default: tab.
	RawProbe  bool   // Append the raw probe JSON as the final column.
	DBPath    string // Optional SQLite catalog; empty disables it.

	// Transcode sampling.
	SampleCount   int     // Samples per file. 0 disables sampling entirely.
	SampleSeconds int     // Per-sample duration. Default: 10. 0 means full duration.
	HwAccel       HwAccel // Default: "none".
	PlexBin       string  // Binary for plex-transcoder mode.
	KeepSamples   bool    // Retain sample clips under OutputDir/samples.
	SampleSeed    int64   // Fixed RNG seed for sample offsets; 0 seeds from time.

	// Health-check mode: decode-integrity samples instead of the inventory
	// pipeline. Uses SampleCount/SampleSeconds with its own defaults.
	HealthCheck bool

	// Issue thresholds.
	HighBitrateMbps     float64 // Default: 20.
	LowBitrateMbps      float64 // Default: 1.
	VeryHighBitrateMbps float64 // Default: 100.
	MaxSubtitleStreams  int     // Default: 5.
	MaxAudioStreams     int     // Default: 3.

	// Sampler tier cutoffs on speed ratio (speed / frame rate).
	TierLowAt    float64 // Below this: Failed. Default: 1.2.
	TierMediumAt float64 // Default: 2.
	TierHighAt   float64 // Default: 3.

	// Statistics.
	TopBottomCount int // Entries per top/bottom ranking. Default: 10.

	// Display and logging.
	Verbose      bool
	Quiet        bool
	ShowProgress bool      // Default: true. Cleared by --no-progress.
	ColorMode    ColorMode // Default: "auto".
	LogFile      string    // Optional log file path.
	CheckOnly    bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the behavior the
// library scripts were curated against. Used as the base before [ParseFlags]
// applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		OutputDir:           "output",
		Extensions:          []string{"mkv", "mp4", "avi", "mov"},
		Delimiter:           "\t",
		SampleCount:         0,
		SampleSeconds:       10,
		HwAccel:             HwNone,
		PlexBin:             "/usr/lib/plexmediaserver/Plex Transcoder",
		HighBitrateMbps:     20,
		LowBitrateMbps:      1,
		VeryHighBitrateMbps: 100,
		MaxSubtitleStreams:  5,
		MaxAudioStreams:     3,
		TierLowAt:           1.2,
		TierMediumAt:        2,
		TierHighAt:          3,
		TopBottomCount:      10,
		ShowProgress:        true,
		ColorMode:           ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and threshold sanity, and normalizes
// mode-dependent defaults (health-check mode implies at least one sample).
// When not in CheckOnly mode, an input source (directory or file list) is
// required.
func (c *Config) Validate() error {
	switch c.HwAccel {
	case HwNone, HwQSV, HwVideoToolbox, HwPlex:
		// valid
	default:
		return errors.New("invalid hwaccel (use 'none', 'qsv', 'videotoolbox' or 'plex-transcoder')")
	}

	if c.Delimiter == "" {
		return errors.New("delimiter must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("need at least one file extension")
	}

	if c.SampleCount < 0 {
		return errors.New("sample count must not be negative")
	}
	if c.SampleSeconds < 0 {
		return errors.New("sample duration must not be negative")
	}
	if c.HealthCheck && c.SampleCount == 0 {
		c.SampleCount = 1
	}

	if c.LowBitrateMbps <= 0 || c.HighBitrateMbps <= 0 || c.VeryHighBitrateMbps <= 0 {
		return errors.New("bitrate thresholds must be positive")
	}
	if c.LowBitrateMbps >= c.HighBitrateMbps || c.HighBitrateMbps > c.VeryHighBitrateMbps {
		return errors.New("bitrate thresholds must satisfy low < high <= very-high")
	}
	if !(c.TierLowAt < c.TierMediumAt && c.TierMediumAt < c.TierHighAt) {
		return fmt.Errorf("tier cutoffs must be ascending (got %g, %g, %g)",
			c.TierLowAt, c.TierMediumAt, c.TierHighAt)
	}
	if c.TopBottomCount < 1 {
		return errors.New("top/bottom count must be at least 1")
	}
	if c.HwAccel == HwPlex && c.PlexBin == "" {
		return errors.New("plex-transcoder mode needs --plex-bin")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" && c.FileList == "" {
		return errors.New("need an input directory or --file-list")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	return nil
}

// ParseExtensions splits a comma-separated extension list into normalized
// entries (lowercase, no leading dot). Empty entries are dropped.
func ParseExtensions(raw string) []string {
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		e := strings.ToLower(strings.TrimSpace(part))
		e = strings.TrimPrefix(e, ".")
		if e != "" {
			exts = append(exts, e)
		}
	}
	return exts
}

// HasExtension reports whether path (case-insensitive) ends in one of the
// configured extensions.
func (c *Config) HasExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, e := range c.Extensions {
		if strings.HasSuffix(lower, "."+e) {
			return true
		}
	}
	return false
}
