package sample

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/ffmpeg"
	"github.com/xoChrisCo/video-toolbox/internal/logging"
	"github.com/xoChrisCo/video-toolbox/internal/naming"
	"github.com/xoChrisCo/video-toolbox/internal/probe"
)

// watchdogGrace is added to each slice's duration before the sample is
// declared stuck. An encoder slower than this is effectively unusable for
// the library, so waiting longer would only stall the run.
const watchdogGrace = 5 * time.Second

// defaultFPS stands in when a file's frame rate could not be parsed, so the
// ratio stays computable. 24 matches the bulk of film content.
const defaultFPS = 24.0

// Tier labels one sample's throughput band relative to realtime playback.
type Tier string

const (
	TierError  Tier = "Error"
	TierFailed Tier = "Failed"
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Outcome is how a sample run ended.
type Outcome int

const (
	// OutcomeMeasured: clean exit with a parsed speed token.
	OutcomeMeasured Outcome = iota
	// OutcomeNoToken: clean exit but the progress output had no speed figure.
	OutcomeNoToken
	// OutcomeAborted: the watchdog interrupted a stuck encode.
	OutcomeAborted
	// OutcomeFailed: the process exited non-zero or never started.
	OutcomeFailed
)

// Sample is the measured result of one transcode slice.
type Sample struct {
	Index   int
	Start   float64 // seconds into the file
	Seconds float64 // sampled duration

	Outcome Outcome
	Speed   float64 // realtime multiple; only valid for OutcomeMeasured
	Ratio   float64 // Speed / frame rate; only valid when RatioOK
	RatioOK bool
	Tier    Tier
}

// SpeedLabel renders the measured speed for reports. Aborted samples read
// "<1": the encoder was provably slower than its own slice.
func (s Sample) SpeedLabel() string {
	switch s.Outcome {
	case OutcomeMeasured:
		return strconv.FormatFloat(s.Speed, 'f', 2, 64)
	case OutcomeNoToken:
		return "N/A"
	case OutcomeAborted:
		return "<1"
	default:
		return "Error"
	}
}

// RatioLabel renders the speed ratio for reports.
func (s Sample) RatioLabel() string {
	if s.RatioOK {
		return strconv.FormatFloat(s.Ratio, 'f', 2, 64)
	}
	return "Error"
}

// Sampler runs transcode slices against files. Build one per run with New;
// the RNG is owned by the sampler so a fixed seed reproduces offsets.
type Sampler struct {
	Bin     string
	PlexBin string
	Mode    config.HwAccel
	Count   int
	Seconds int

	// Tier cutoffs on the speed ratio.
	LowAt    float64
	MediumAt float64
	HighAt   float64

	Verbose bool

	// clips, when set, receives a stream-copied clip of every sampled
	// slice for later eyeballing.
	clips *naming.ClipNamer

	log *logging.Logger
	rng *rand.Rand
}

// New builds a Sampler from the runtime configuration.
func New(cfg *config.Config, log *logging.Logger) *Sampler {
	seed := cfg.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Sampler{
		Bin:      "ffmpeg",
		PlexBin:  cfg.PlexBin,
		Mode:     cfg.HwAccel,
		Count:    cfg.SampleCount,
		Seconds:  cfg.SampleSeconds,
		LowAt:    cfg.TierLowAt,
		MediumAt: cfg.TierMediumAt,
		HighAt:   cfg.TierHighAt,
		Verbose:  cfg.Verbose,
		log:      log,
		rng:      rand.New(rand.NewSource(seed)),
	}
	if cfg.KeepSamples {
		s.clips = naming.NewClipNamer(naming.SampleDir(cfg.OutputDir))
	}
	return s
}

// SampleFile measures Count slices of one file. Per-sample failures are
// recorded in the returned entries, never raised: one stuck sample must not
// cost the file its remaining measurements.
func (s *Sampler) SampleFile(ctx context.Context, path string, duration float64, fps probe.Num) []Sample {
	slice := s.sliceSeconds(duration)
	samples := make([]Sample, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		if ctx.Err() != nil {
			break
		}
		start := s.offsetFor(i, duration, slice)
		smp := s.runOne(ctx, path, i, start, slice, fps)
		samples = append(samples, smp)
		if s.clips != nil {
			s.retainClip(ctx, path, i, start, slice)
		}
	}
	return samples
}

// sliceSeconds caps the configured sample duration at the file's length.
// Zero or unknown values fall back to sampling the whole file or the
// configured duration respectively.
func (s *Sampler) sliceSeconds(duration float64) float64 {
	want := float64(s.Seconds)
	if duration <= 0 {
		if want <= 0 {
			want = 10
		}
		return want
	}
	if want <= 0 || want > duration {
		return duration
	}
	return want
}

// offsetFor places a slice. Sample 0 is pinned to the file start as the
// deterministic baseline; later samples land uniformly in the span that
// still leaves room for a full slice.
func (s *Sampler) offsetFor(index int, duration, slice float64) float64 {
	if index == 0 {
		return 0
	}
	span := duration - slice
	if span <= 0 {
		return 0
	}
	return s.rng.Float64() * span
}

func (s *Sampler) binary() string {
	if s.Mode == config.HwPlex {
		return s.PlexBin
	}
	return s.Bin
}

func (s *Sampler) args(path string, start, slice float64) []string {
	input, output := encoderArgs(s.Mode)

	args := []string{"-hide_banner", "-nostdin", "-v", "error", "-stats"}
	args = append(args, input...)
	args = append(args, "-ss", formatSeconds(start), "-t", formatSeconds(slice), "-i", path)
	args = append(args, output...)
	args = append(args, "-c:a", "aac", "-f", "null", "-")
	return args
}

func (s *Sampler) runOne(ctx context.Context, path string, index int, start, slice float64, fps probe.Num) Sample {
	smp := Sample{Index: index, Start: start, Seconds: slice}

	argv := s.args(path, start, slice)
	s.log.Debug(s.Verbose, "sample %d: %s %s", index+1, s.binary(), strings.Join(argv, " "))

	h, err := ffmpeg.Start(ctx, s.binary(), argv...)
	if err != nil {
		s.log.Debug(s.Verbose, "sample %d: start failed: %v", index+1, err)
		smp.Outcome = OutcomeFailed
		smp.Tier = TierError
		return smp
	}

	budget := time.Duration(slice*float64(time.Second)) + watchdogGrace
	out := h.WaitTimeout(budget)

	switch {
	case out.TimedOut:
		smp.Outcome = OutcomeAborted
		smp.Tier = TierLow
	case out.ExitCode != 0:
		s.log.Debug(s.Verbose, "sample %d: exit %d: %s", index+1, out.ExitCode, firstLine(out.Stderr))
		smp.Outcome = OutcomeFailed
		smp.Tier = TierError
	default:
		speed, ok := ffmpeg.LastSpeed(out.Stderr)
		if !ok {
			smp.Outcome = OutcomeNoToken
			smp.Tier = TierError
			break
		}
		smp.Outcome = OutcomeMeasured
		smp.Speed = speed
		smp.Ratio, smp.RatioOK = speedRatio(speed, fps)
		if smp.RatioOK {
			smp.Tier = s.tierFor(smp.Ratio)
		} else {
			smp.Tier = TierError
		}
	}
	return smp
}

// retainClip stream-copies the sampled slice next to the run output. Copy
// failures only cost the clip, not the measurement.
func (s *Sampler) retainClip(ctx context.Context, path string, index int, start, slice float64) {
	out, err := s.clips.Path(path, index, start)
	if err != nil {
		s.log.Warn("sample clip for %s: %v", path, err)
		return
	}
	args := []string{
		"-hide_banner", "-nostdin", "-v", "error", "-y",
		"-ss", formatSeconds(start), "-i", path, "-t", formatSeconds(slice),
		"-c", "copy", out,
	}
	h, err := ffmpeg.Start(ctx, s.Bin, args...)
	if err != nil {
		s.log.Warn("sample clip for %s: %v", path, err)
		return
	}
	budget := time.Duration(slice*float64(time.Second)) + watchdogGrace
	if res := h.WaitTimeout(budget); res.TimedOut || res.ExitCode != 0 {
		s.log.Warn("sample clip for %s not written (exit %d)", path, res.ExitCode)
	}
}

// speedRatio divides measured speed by the file's frame rate, defaulting the
// rate to defaultFPS when unparseable. A zero rate has no meaningful ratio.
func speedRatio(speed float64, fps probe.Num) (float64, bool) {
	rate, ok := fps.Float64()
	if !ok {
		rate = defaultFPS
	}
	if rate == 0 {
		return 0, false
	}
	return speed / rate, true
}

// tierFor maps a speed ratio into exactly one band. Boundaries are
// left-closed: a ratio of exactly 2.0 is Medium, exactly 3.0 is High.
func (s *Sampler) tierFor(ratio float64) Tier {
	switch {
	case ratio < s.LowAt:
		return TierFailed
	case ratio < s.MediumAt:
		return TierLow
	case ratio < s.HighAt:
		return TierMedium
	default:
		return TierHigh
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// String implements fmt.Stringer for log lines.
func (s Sample) String() string {
	return fmt.Sprintf("sample %d @%ss: speed %s, ratio %s, tier %s",
		s.Index+1, formatSeconds(s.Start), s.SpeedLabel(), s.RatioLabel(), s.Tier)
}
