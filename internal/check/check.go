// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for ffprobe, ffmpeg and the encoder
// behind the selected transcode sampling mode.
package check

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/xoChrisCo/video-toolbox/internal/catalog"
	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfprobeNotFound        = errors.New("ffprobe not found on PATH")
	ErrFfmpegNotFound         = errors.New("ffmpeg not found on PATH")
	ErrX264TestFailed         = errors.New("libx264 test encode failed")
	ErrQSVTestFailed          = errors.New("qsv selected but h264_qsv test encode failed")
	ErrVideoToolboxTestFailed = errors.New("videotoolbox selected but h264_videotoolbox test encode failed")
	ErrPlexBinNotFound        = errors.New("plex-transcoder selected but the transcoder binary is not executable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffprobe
// and ffmpeg, the hardware accelerators and H.264 encoders ffmpeg reports,
// a test encode for the selected sampling mode, the AAC encoder, and the
// SQLite catalog driver. This is informational only; it does not stop on
// failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "ffprobe")
	checkTool(log, "ffmpeg")
	checkHwaccels(log)
	checkH264Encoders(log)
	checkSamplerMode(cfg, log)
	checkAAC(log)
	checkCatalog(cfg, log)
}

// checkTool verifies a binary is on PATH and logs its version line.
func checkTool(log Logger, name string) {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	log.Success("%s: %s", name, firstLine(string(out)))
}

// checkHwaccels lists the hardware acceleration methods ffmpeg was built with.
func checkHwaccels(log Logger) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-hwaccels").Output()
	if err != nil {
		log.Warn("Could not list hardware accelerators: %v", err)
		return
	}
	log.Info("Hardware accelerators:")
	for i, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if i == 0 || line == "" {
			// First line is the "Hardware acceleration methods:" banner.
			continue
		}
		log.Info("  %s", line)
	}
}

// checkH264Encoders lists all H.264 encoders reported by ffmpeg. Sampling
// always transcodes to H.264, whichever mode drives it.
func checkH264Encoders(log Logger) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	log.Info("H.264 encoders:")
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(strings.ToLower(line), "h264") {
			log.Info("  %s", strings.TrimSpace(line))
		}
	}
}

// checkSamplerMode runs a test encode for the configured sampling mode, plus
// the software x264 baseline when a hardware mode is selected so a fallback
// path is visible in the same report.
func checkSamplerMode(cfg *config.Config, log Logger) {
	switch cfg.HwAccel {
	case config.HwQSV:
		log.Info("Testing QSV encode...")
		if testEncoder("h264_qsv", "-preset", "veryfast") {
			log.Success("h264_qsv works")
		} else {
			log.Error("h264_qsv test encode failed")
		}
		checkX264(log)
	case config.HwVideoToolbox:
		log.Info("Testing VideoToolbox encode...")
		if testEncoder("h264_videotoolbox", "-realtime", "true") {
			log.Success("h264_videotoolbox works")
		} else {
			log.Error("h264_videotoolbox test encode failed")
		}
		checkX264(log)
	case config.HwPlex:
		if plexBinUsable(cfg.PlexBin) {
			log.Success("Plex transcoder: %s", cfg.PlexBin)
		} else {
			log.Error("Plex transcoder not executable: %s", cfg.PlexBin)
		}
		checkX264(log)
	default:
		checkX264(log)
	}
}

// checkX264 runs a minimal libx264 encode to verify software encoding works.
func checkX264(log Logger) {
	log.Info("Testing software x264...")
	if testEncoder("libx264", "-preset", "ultrafast") {
		log.Success("Software x264 works")
	} else {
		log.Error("Software x264 test encode failed")
	}
}

// checkAAC runs a minimal AAC encode; sample slices re-encode audio with it.
func checkAAC(log Logger) {
	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// checkCatalog proves the SQLite driver links and runs, without touching the
// configured catalog file. Skipped when no catalog is configured.
func checkCatalog(cfg *config.Config, log Logger) {
	if cfg.DBPath == "" {
		return
	}
	c, err := catalog.Open(":memory:")
	if err != nil {
		log.Error("SQLite catalog driver unusable: %v", err)
		return
	}
	c.Close()
	log.Success("SQLite catalog driver works (catalog: %s)", cfg.DBPath)
}

// CheckDeps is the pre-run validation. ffprobe is always required; ffmpeg
// only when the run will spawn it (health check or transcode sampling), and
// sampling additionally needs its encoder to pass a short test encode.
// Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !cfg.HealthCheck && cfg.SampleCount == 0 {
		return nil
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if cfg.HealthCheck {
		// Decode-only: no encoder involved.
		return nil
	}

	switch cfg.HwAccel {
	case config.HwQSV:
		if !testEncoder("h264_qsv", "-preset", "veryfast") {
			return ErrQSVTestFailed
		}
	case config.HwVideoToolbox:
		if !testEncoder("h264_videotoolbox", "-realtime", "true") {
			return ErrVideoToolboxTestFailed
		}
	case config.HwPlex:
		if !plexBinUsable(cfg.PlexBin) {
			return ErrPlexBinNotFound
		}
	default:
		if !testEncoder("libx264", "-preset", "ultrafast") {
			return ErrX264TestFailed
		}
	}
	return nil
}

// --- internal helpers ---

// testEncoder runs a minimal encode of a generated frame through the given
// video encoder, mirroring the arguments the sampler uses for that mode.
func testEncoder(codec string, extra ...string) bool {
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
	}
	args = append(args, extra...)
	args = append(args, "-f", "null", "-")
	return runSilent("ffmpeg", args...)
}

// plexBinUsable reports whether the Plex transcoder path is an executable
// file. No test encode: outside Plex's own library environment the binary
// can fail to start even when it would work for the server.
func plexBinUsable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

// runSilent runs a command and reports whether it exited with status 0.
// Output is discarded; only the verdict matters here.
func runSilent(name string, args ...string) bool {
	out, err := ffmpeg.Run(context.Background(), name, args...)
	return err == nil && out.ExitCode == 0
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i > 0 {
		s = s[:i]
	}
	return s
}
