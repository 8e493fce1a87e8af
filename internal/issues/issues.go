package issues

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/config"
)

// DefaultSeparator joins sorted description strings unless the caller
// overrides it.
const DefaultSeparator = "; "

// NoIssues is the description reported when no rule fires.
const NoIssues = "None"

// standardVideoCodecs direct-play on every target device.
var standardVideoCodecs = map[string]bool{
	"h264": true,
	"hevc": true,
	"vp9":  true,
	"av1":  true,
}

// standardAudioCodecs pass through or transcode cheaply.
var standardAudioCodecs = map[string]bool{
	"aac":  true,
	"ac3":  true,
	"eac3": true,
	"mp3":  true,
	"opus": true,
}

// problematicSubtitleCodecs are bitmap formats that force burn-in.
var problematicSubtitleCodecs = map[string]bool{
	"dvd_subtitle":      true,
	"hdmv_pgs_subtitle": true,
	"dvb_subtitle":      true,
}

// standardResolutions is the exact width x height whitelist. Anything else
// was cropped, scaled oddly, or ripped from an unusual master.
var standardResolutions = map[[2]int]bool{
	{1920, 1080}: true,
	{3840, 2160}: true,
	{1280, 720}:  true,
	{720, 480}:   true,
	{720, 576}:   true,
}

// standardFrameRates are the cinema and broadcast rates.
var standardFrameRates = []float64{23.976, 24, 25, 29.97, 30, 50, 59.94, 60}

// complexProfileMarkers flag chroma subsampling most hardware decoders reject.
var complexProfileMarkers = []string{"high 4:2:2", "high 4:4:4"}

// commonContainers are substrings matched against ffprobe's format_name
// (which can be a comma list like "mov,mp4,m4a,3gp,3g2,mj2").
var commonContainers = []string{"matroska", "mov", "mp4", "avi", "mpegts"}

// Thresholds holds the tunable rule limits. The zero value is not useful;
// build one with FromConfig or fill the fields explicitly in tests.
type Thresholds struct {
	HighBitrateMbps     float64
	LowBitrateMbps      float64
	VeryHighBitrateMbps float64
	MaxSubtitleStreams  int
	MaxAudioStreams     int

	// Separator joins the sorted descriptions; empty means DefaultSeparator.
	Separator string
}

// FromConfig copies the rule limits out of the runtime configuration.
func FromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		HighBitrateMbps:     cfg.HighBitrateMbps,
		LowBitrateMbps:      cfg.LowBitrateMbps,
		VeryHighBitrateMbps: cfg.VeryHighBitrateMbps,
		MaxSubtitleStreams:  cfg.MaxSubtitleStreams,
		MaxAudioStreams:     cfg.MaxAudioStreams,
	}
}

// Report is the outcome of one detector run: one flag per rule plus the
// matching description strings. Detect builds a fresh Report per call, so
// repeated or concurrent calls never share state.
type Report struct {
	UnknownMetadata       bool
	NonStandardVideoCodec bool
	NonStandardAudioCodec bool
	ProblematicSubtitles  bool
	HighBitrate           bool
	LowBitrate            bool
	VeryHighBitrate       bool
	NonStandardResolution bool
	NonStandardFrameRate  bool
	HighBitDepth          bool
	HDRContent            bool
	FourK                 bool
	ComplexProfile        bool
	VariableFrameRate     bool
	Interlaced            bool
	HighSubtitleCount     bool
	UncommonContainer     bool
	MultipleAudioStreams  bool
	DolbyVisionP5         bool

	descriptions []string
	separator    string
}

// Flag pairs a stable column name with the flag's value, in rule order.
type Flag struct {
	Name string
	Set  bool
}

// flagNames is the stable rule/column order.
var flagNames = []string{
	"Unknown Metadata",
	"Non-standard Video Codec",
	"Non-standard Audio Codec",
	"Problematic Subtitles",
	"High Bitrate",
	"Low Bitrate",
	"Very High Bitrate",
	"Non-standard Resolution",
	"Non-standard Frame Rate",
	"High Bit Depth",
	"HDR Content",
	"4K Content",
	"Complex Video Profile",
	"Variable Frame Rate",
	"Interlaced",
	"High Subtitle Count",
	"Uncommon Container",
	"Multiple Audio Streams",
	"DV Profile 5",
}

// FlagNames returns the rule names in the order Flags reports them. The
// record writer uses these as column headers.
func FlagNames() []string {
	out := make([]string, len(flagNames))
	copy(out, flagNames)
	return out
}

// Flags returns every rule flag in stable order, matching FlagNames.
func (r *Report) Flags() []Flag {
	vals := []bool{
		r.UnknownMetadata,
		r.NonStandardVideoCodec,
		r.NonStandardAudioCodec,
		r.ProblematicSubtitles,
		r.HighBitrate,
		r.LowBitrate,
		r.VeryHighBitrate,
		r.NonStandardResolution,
		r.NonStandardFrameRate,
		r.HighBitDepth,
		r.HDRContent,
		r.FourK,
		r.ComplexProfile,
		r.VariableFrameRate,
		r.Interlaced,
		r.HighSubtitleCount,
		r.UncommonContainer,
		r.MultipleAudioStreams,
		r.DolbyVisionP5,
	}
	out := make([]Flag, len(vals))
	for i, v := range vals {
		out[i] = Flag{Name: flagNames[i], Set: v}
	}
	return out
}

// Any reports whether at least one rule fired.
func (r *Report) Any() bool {
	for _, f := range r.Flags() {
		if f.Set {
			return true
		}
	}
	return false
}

// Descriptions returns the individual description strings, sorted.
func (r *Report) Descriptions() []string {
	out := make([]string, len(r.descriptions))
	copy(out, r.descriptions)
	sort.Strings(out)
	return out
}

// Description returns the sorted descriptions joined by the configured
// separator, or NoIssues when nothing fired.
func (r *Report) Description() string {
	if len(r.descriptions) == 0 {
		return NoIssues
	}
	sep := r.separator
	if sep == "" {
		sep = DefaultSeparator
	}
	return strings.Join(r.Descriptions(), sep)
}

func (r *Report) add(desc string) {
	r.descriptions = append(r.descriptions, desc)
}

// unknown records the metadata-sanity failure at most once, no matter how
// many fields tripped it.
func (r *Report) unknown() {
	if r.UnknownMetadata {
		return
	}
	r.UnknownMetadata = true
	r.add("Unknown metadata: stream fields missing or unparseable")
}

// Detect evaluates the full rule matrix against one file's classified
// metadata and returns a fresh Report.
//
// Flow:
//  1. Metadata sanity (missing codecs, unparseable numerics)
//  2. Codec and format rules (video, audio, subtitles, container)
//  3. Bitrate bands against the overall container bitrate
//  4. Geometry and timing (resolution, 4K, frame rate, interlacing)
//  5. Color and depth (bit depth, HDR, Dolby Vision profile 5)
//  6. Stream-count limits
func (t Thresholds) Detect(res classify.Result) *Report {
	r := &Report{separator: t.Separator}

	v := res.Video

	// --- 1+2. Video codec ---
	codec := baseValue(v.Codec)
	if codec == "" || codec == classify.NA {
		r.unknown()
	} else if !standardVideoCodecs[strings.ToLower(codec)] {
		r.NonStandardVideoCodec = true
		r.add("Non-standard video codec: " + codec)
	}

	// --- Audio codecs ---
	var oddAudio []string
	for _, tr := range res.Audio.Tracks {
		if tr.Codec == "" || tr.Codec == classify.NA {
			r.unknown()
			continue
		}
		if c := strings.ToLower(tr.Codec); !standardAudioCodecs[c] {
			oddAudio = appendUnique(oddAudio, c)
		}
	}
	if len(oddAudio) > 0 {
		r.NonStandardAudioCodec = true
		r.add("Non-standard audio codec: " + strings.Join(oddAudio, ", "))
	}

	// --- Subtitle formats ---
	var badSubs []string
	for _, tr := range res.Subtitle.Tracks {
		if tr.Codec == "" || tr.Codec == classify.NA {
			r.unknown()
			continue
		}
		if c := strings.ToLower(tr.Codec); problematicSubtitleCodecs[c] {
			badSubs = appendUnique(badSubs, c)
		}
	}
	if len(badSubs) > 0 {
		r.ProblematicSubtitles = true
		r.add("Problematic subtitle format: " + strings.Join(badSubs, ", "))
	}

	// --- Container ---
	if !containsAnyFold(res.Format.Container, commonContainers) {
		r.UncommonContainer = true
		r.add("Uncommon container format: " + res.Format.Container)
	}

	// --- 3. Bitrate bands (overall container bitrate) ---
	if res.Format.BitRate.Unparseable() {
		r.unknown()
	} else if br, ok := res.Format.BitRate.Float64(); ok {
		mbps := br / 1e6
		if mbps > t.HighBitrateMbps {
			r.HighBitrate = true
			r.add(fmt.Sprintf("High bitrate: %.1f Mbps", mbps))
		}
		if mbps < t.LowBitrateMbps {
			r.LowBitrate = true
			r.add(fmt.Sprintf("Low bitrate: %.1f Mbps", mbps))
		}
		if mbps > t.VeryHighBitrateMbps {
			r.VeryHighBitrate = true
			r.add(fmt.Sprintf("Very high bitrate: %.1f Mbps", mbps))
		}
	}

	// --- 4. Resolution ---
	if v.Width.Unparseable() || v.Height.Unparseable() {
		r.unknown()
	} else {
		w, okW := v.Width.Int()
		h, okH := v.Height.Int()
		if okW && okH {
			if !standardResolutions[[2]int{w, h}] {
				r.NonStandardResolution = true
				r.add(fmt.Sprintf("Non-standard resolution: %dx%d", w, h))
			}
			// Exact match only. 8K is non-standard, not "4K but more so".
			if w == 3840 && h == 2160 {
				r.FourK = true
				r.add("4K content may require significant transcoding power")
			}
		}
	}

	// --- Frame rate ---
	if strings.ContainsAny(v.FrameRate, ",/") {
		r.VariableFrameRate = true
		r.add("Variable frame rate: " + v.FrameRate)
	} else if fps, ok := v.FPS.Float64(); ok {
		if !isStandardRate(fps) {
			r.NonStandardFrameRate = true
			r.add(fmt.Sprintf("Non-standard frame rate: %s fps", v.FrameRate))
		}
	}

	// --- Interlacing ---
	if v.Interlaced() {
		r.Interlaced = true
		r.add("Interlaced content: field order " + v.FieldOrder)
	}

	// --- Profile complexity ---
	if containsAnyFold(v.Profile, complexProfileMarkers) {
		r.ComplexProfile = true
		r.add("Complex video profile: " + v.Profile)
	}

	// --- 5. Bit depth, HDR, Dolby Vision ---
	if v.BitDepth != "8" && v.BitDepth != classify.NA {
		r.HighBitDepth = true
		r.add(fmt.Sprintf("High bit depth: %s-bit", v.BitDepth))
	}
	if v.HDR {
		r.HDRContent = true
		r.add("HDR content may require tone-mapping")
	}
	if p, ok := v.DVProfile.Int(); ok && p == 5 {
		r.DolbyVisionP5 = true
		r.add("Dolby Vision Profile 5 may show green and purple tint on non-DV players")
	}

	// --- 6. Stream counts ---
	if n := res.Subtitle.StreamCount; n > t.MaxSubtitleStreams {
		r.HighSubtitleCount = true
		r.add(fmt.Sprintf("High subtitle stream count: %d", n))
	}
	if n := res.Audio.StreamCount; n > t.MaxAudioStreams {
		r.MultipleAudioStreams = true
		r.add(fmt.Sprintf("Multiple audio streams: %d", n))
	}

	return r
}

// baseValue strips the "(+N)" multi-stream marker off a folded value.
func baseValue(val string) string {
	if i := strings.Index(val, " (+"); i >= 0 {
		return val[:i]
	}
	return val
}

func isStandardRate(fps float64) bool {
	for _, std := range standardFrameRates {
		if fps > std-0.001 && fps < std+0.001 {
			return true
		}
	}
	return false
}

func containsAnyFold(s string, subs []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, val string) []string {
	for _, v := range list {
		if v == val {
			return list
		}
	}
	return append(list, val)
}
