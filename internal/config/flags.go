package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into discovery, output, sampling, thresholds, and display.
// Negated flags (e.g. --no-progress) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, bad enum value).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("video-toolbox", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineDiscoveryFlags(fs, cfg)
	defineOutputFlags(fs, cfg)
	defineSamplingFlags(fs, cfg)
	defineThresholdFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "video-toolbox v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noProgress -> ShowProgress=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noProgress  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineDiscoveryFlags registers -e/--extensions, --file-list, --write-file-list.
func defineDiscoveryFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&extensionsValue{&cfg.Extensions}, "extensions", "Comma-separated file extensions to scan")
	fs.Var(&extensionsValue{&cfg.Extensions}, "e", "Same as --extensions")
	fs.StringVar(&cfg.FileList, "file-list", "", "Process paths from this list, resuming at its cursor")
	fs.StringVar(&cfg.FileList, "f", "", "Same as --file-list")
	fs.BoolVar(&cfg.WriteFileList, "write-file-list", false, "Generate a resumable file list and exit")
}

// defineOutputFlags registers -o/--output, --delimiter, --raw-probe, --db.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Directory for CSV, statistics and logs")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output")
	fs.Var(&delimiterValue{&cfg.Delimiter}, "delimiter", "CSV delimiter ('tab', 'comma' or a literal)")
	fs.BoolVar(&cfg.RawProbe, "raw-probe", false, "Append raw probe JSON as the final column")
	fs.StringVar(&cfg.DBPath, "db", "", "Also write records to this SQLite catalog")
}

// defineSamplingFlags registers -s/--samples, --sample-duration, --hwaccel, --plex-bin, --keep-samples, --sample-seed.
func defineSamplingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.SampleCount, "samples", cfg.SampleCount, "Transcode samples per file (0 disables)")
	fs.IntVar(&cfg.SampleCount, "s", cfg.SampleCount, "Same as --samples")
	fs.IntVar(&cfg.SampleSeconds, "sample-duration", cfg.SampleSeconds, "Seconds per sample (0 = full file)")
	fs.Var(&hwAccelValue{&cfg.HwAccel}, "hwaccel", "Sampler transcode path: none | qsv | videotoolbox | plex-transcoder")
	fs.StringVar(&cfg.PlexBin, "plex-bin", cfg.PlexBin, "Plex Transcoder binary for plex-transcoder mode")
	fs.BoolVar(&cfg.KeepSamples, "keep-samples", false, "Retain sample clips under <output>/samples")
	fs.Int64Var(&cfg.SampleSeed, "sample-seed", 0, "Fixed seed for random sample offsets")
	fs.BoolVar(&cfg.HealthCheck, "health-check", false, "Decode-integrity scan instead of inventory")
}

// defineThresholdFlags registers the issue-detection and tiering thresholds.
func defineThresholdFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Float64Var(&cfg.HighBitrateMbps, "high-bitrate", cfg.HighBitrateMbps, "High-bitrate issue threshold (Mbps)")
	fs.Float64Var(&cfg.LowBitrateMbps, "low-bitrate", cfg.LowBitrateMbps, "Low-bitrate issue threshold (Mbps)")
	fs.Float64Var(&cfg.VeryHighBitrateMbps, "very-high-bitrate", cfg.VeryHighBitrateMbps, "Very-high-bitrate issue threshold (Mbps)")
	fs.IntVar(&cfg.MaxSubtitleStreams, "max-subtitle-streams", cfg.MaxSubtitleStreams, "Subtitle count above this is flagged")
	fs.IntVar(&cfg.MaxAudioStreams, "max-audio-streams", cfg.MaxAudioStreams, "Audio count above this is flagged")
	fs.Float64Var(&cfg.TierLowAt, "tier-low", cfg.TierLowAt, "Speed ratio below this is tier Failed")
	fs.Float64Var(&cfg.TierMediumAt, "tier-medium", cfg.TierMediumAt, "Speed ratio at or above this is tier Medium")
	fs.Float64Var(&cfg.TierHighAt, "tier-high", cfg.TierHighAt, "Speed ratio at or above this is tier High")
	fs.IntVar(&cfg.TopBottomCount, "top", cfg.TopBottomCount, "Entries per top/bottom ranking in statistics")
}

// defineDisplayFlags registers --color, --no-color, verbose, quiet, progress, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&n.noProgress, "no-progress", false, "Disable the overwriting progress line")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Quiet output (warnings and errors only)")
	fs.BoolVar(&cfg.Quiet, "q", false, "Same as --quiet")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated flag values into cfg (e.g. noProgress -> ShowProgress=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir from the single positional arg. The input
// directory is optional when a file list supplies the paths or in CheckOnly /
// WriteFileList-from-list modes; Validate enforces the final requirement.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.InputDir = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("expected at most one input directory, got %d args", len(args))
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 32 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "video-toolbox v" + version + " — media library inventory and health scanner"},
		{"", ""},
		{"  video-toolbox [OPTIONS] <input_dir>", ""},
		{"", ""},
		{"Discovery", ""},
		{"  -e, --extensions <csv>", "File extensions to scan (default: mkv,mp4,avi,mov)"},
		{"  -f, --file-list <path>", "Process paths from a list, resuming at its cursor"},
		{"  --write-file-list", "Generate a resumable file list and exit"},
		{"", ""},
		{"Output", ""},
		{"  -o, --output <dir>", "Directory for CSV, statistics and logs (default: output)"},
		{"  --delimiter <value>", "CSV delimiter: 'tab', 'comma' or a literal (default: tab)"},
		{"  --raw-probe", "Append raw probe JSON as the final column"},
		{"  --db <path>", "Also write records to a SQLite catalog"},
		{"", ""},
		{"Transcode sampling", ""},
		{"  -s, --samples <n>", "Transcode samples per file (default: 0 = off)"},
		{"  --sample-duration <sec>", "Seconds per sample (default: 10; 0 = full file)"},
		{"  --hwaccel <mode>", "none | qsv | videotoolbox | plex-transcoder"},
		{"  --plex-bin <path>", "Plex Transcoder binary for plex-transcoder mode"},
		{"  --keep-samples", "Retain sample clips under <output>/samples"},
		{"  --sample-seed <n>", "Fixed seed for random sample offsets"},
		{"  --health-check", "Decode-integrity scan instead of inventory"},
		{"", ""},
		{"Thresholds", ""},
		{"  --high-bitrate <mbps>", "High-bitrate issue threshold (default: 20)"},
		{"  --low-bitrate <mbps>", "Low-bitrate issue threshold (default: 1)"},
		{"  --very-high-bitrate <mbps>", "Very-high-bitrate issue threshold (default: 100)"},
		{"  --max-subtitle-streams <n>", "Subtitle count above this is flagged (default: 5)"},
		{"  --max-audio-streams <n>", "Audio count above this is flagged (default: 3)"},
		{"  --tier-low <ratio>", "Speed ratio below this is Failed (default: 1.2)"},
		{"  --tier-medium <ratio>", "Medium tier lower bound (default: 2)"},
		{"  --tier-high <ratio>", "High tier lower bound (default: 3)"},
		{"  --top <n>", "Entries per top/bottom ranking (default: 10)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  --no-progress", "Disable the overwriting progress line"},
		{"  -v, --verbose", "Verbose output"},
		{"  -q, --quiet", "Quiet output (warnings and errors only)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffprobe, ffmpeg, hwaccel)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum and list types with flag.Var.

type hwAccelValue struct{ p *HwAccel }

func (h *hwAccelValue) String() string { return string(*h.p) }
func (h *hwAccelValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "none":
		*h.p = HwNone
	case "qsv":
		*h.p = HwQSV
	case "videotoolbox":
		*h.p = HwVideoToolbox
	case "plex-transcoder", "plex":
		*h.p = HwPlex
	default:
		return fmt.Errorf("invalid hwaccel %q (use 'none', 'qsv', 'videotoolbox' or 'plex-transcoder')", s)
	}
	return nil
}

type extensionsValue struct{ p *[]string }

func (e *extensionsValue) String() string {
	if e.p == nil {
		return ""
	}
	return strings.Join(*e.p, ",")
}
func (e *extensionsValue) Set(s string) error {
	exts := ParseExtensions(s)
	if len(exts) == 0 {
		return fmt.Errorf("no usable extensions in %q", s)
	}
	*e.p = exts
	return nil
}

// delimiterValue accepts the words "tab" and "comma" as well as a literal
// delimiter string, so the common cases survive shell quoting.
type delimiterValue struct{ p *string }

func (d *delimiterValue) String() string {
	if d.p == nil {
		return ""
	}
	if *d.p == "\t" {
		return "tab"
	}
	return *d.p
}
func (d *delimiterValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "tab", "\\t":
		*d.p = "\t"
	case "comma":
		*d.p = ","
	case "":
		return fmt.Errorf("delimiter must not be empty")
	default:
		*d.p = s
	}
	return nil
}
