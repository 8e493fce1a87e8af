package issues

import (
	"strings"
	"testing"

	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/probe"
)

// --- Helper builders ---

func defaults() Thresholds {
	return Thresholds{
		HighBitrateMbps:     20,
		LowBitrateMbps:      1,
		VeryHighBitrateMbps: 100,
		MaxSubtitleStreams:  5,
		MaxAudioStreams:     3,
	}
}

func classifyJSON(t *testing.T, raw string) classify.Result {
	t.Helper()
	doc, err := probe.ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return classify.Classify(doc)
}

const cleanMatroska = `{
	"format": {"format_name": "matroska,webm", "duration": "120.5", "bit_rate": "5000000"},
	"streams": [{
		"codec_type": "video", "codec_name": "h264", "width": "1920", "height": "1080",
		"avg_frame_rate": "24000/1001", "color_transfer": "bt709", "pix_fmt": "yuv420p"
	}]
}`

const hdrEightK = `{
	"format": {"format_name": "matroska,webm", "duration": "120.5", "bit_rate": "5000000"},
	"streams": [{
		"codec_type": "video", "codec_name": "h264", "width": "7680", "height": "4320",
		"avg_frame_rate": "24000/1001", "color_transfer": "smpte2084", "pix_fmt": "yuv420p"
	}]
}`

// --- Rule matrix tests ---

func TestDetectCleanFile(t *testing.T) {
	r := defaults().Detect(classifyJSON(t, cleanMatroska))
	if r.Any() {
		t.Fatalf("clean file fired issues: %q", r.Description())
	}
	if got := r.Description(); got != "None" {
		t.Errorf("description: got %q, want %q", got, "None")
	}
}

func TestDetectHDREightK(t *testing.T) {
	r := defaults().Detect(classifyJSON(t, hdrEightK))

	if !r.HDRContent {
		t.Error("HDR content should fire for smpte2084")
	}
	if !r.NonStandardResolution {
		t.Error("non-standard resolution should fire for 7680x4320")
	}
	if r.FourK {
		t.Error("4K content must not fire: rule wants exactly 3840x2160")
	}

	want := "HDR content may require tone-mapping; Non-standard resolution: 7680x4320"
	if got := r.Description(); got != want {
		t.Errorf("description:\n  got  %q\n  want %q", got, want)
	}
}

func TestDetectFourKExactMatch(t *testing.T) {
	res := classifyJSON(t, `{
		"format": {"format_name": "matroska", "bit_rate": "15000000"},
		"streams": [{
			"codec_type": "video", "codec_name": "hevc", "width": 3840, "height": 2160,
			"avg_frame_rate": "24000/1001", "pix_fmt": "yuv420p"
		}]
	}`)
	r := defaults().Detect(res)
	if !r.FourK {
		t.Error("4K content should fire for 3840x2160")
	}
	if r.NonStandardResolution {
		t.Error("3840x2160 is a standard resolution")
	}
}

func TestDetectBitrateBands(t *testing.T) {
	tests := []struct {
		name     string
		bitRate  string
		high     bool
		low      bool
		veryHigh bool
	}{
		{"mid band", "5000000", false, false, false},
		{"low", "500000", false, true, false},
		{"high only", "25000000", true, false, false},
		{"very high implies high", "120000000", true, false, true},
		{"exactly at high threshold", "20000000", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classifyJSON(t, `{
				"format": {"format_name": "matroska", "bit_rate": "`+tt.bitRate+`"},
				"streams": [{
					"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
					"avg_frame_rate": "25/1", "pix_fmt": "yuv420p"
				}]
			}`)
			r := defaults().Detect(res)
			if r.HighBitrate != tt.high {
				t.Errorf("high: got %v, want %v", r.HighBitrate, tt.high)
			}
			if r.LowBitrate != tt.low {
				t.Errorf("low: got %v, want %v", r.LowBitrate, tt.low)
			}
			if r.VeryHighBitrate != tt.veryHigh {
				t.Errorf("very high: got %v, want %v", r.VeryHighBitrate, tt.veryHigh)
			}
		})
	}
}

func TestDetectNonStandardCodecs(t *testing.T) {
	res := classifyJSON(t, `{
		"format": {"format_name": "matroska", "bit_rate": "8000000"},
		"streams": [
			{"codec_type": "video", "codec_name": "mpeg2video", "width": 720, "height": 576,
			 "avg_frame_rate": "25/1", "pix_fmt": "yuv420p"},
			{"codec_type": "audio", "codec_name": "dts"},
			{"codec_type": "audio", "codec_name": "truehd"},
			{"codec_type": "subtitle", "codec_name": "hdmv_pgs_subtitle"}
		]
	}`)
	r := defaults().Detect(res)

	if !r.NonStandardVideoCodec {
		t.Error("mpeg2video should fire the video-codec rule")
	}
	if !r.NonStandardAudioCodec {
		t.Error("dts/truehd should fire the audio-codec rule")
	}
	if !r.ProblematicSubtitles {
		t.Error("PGS subtitles should fire the subtitle rule")
	}
	desc := r.Description()
	if !strings.Contains(desc, "Non-standard audio codec: dts, truehd") {
		t.Errorf("audio description missing offender list: %q", desc)
	}
	if !strings.Contains(desc, "Non-standard video codec: mpeg2video") {
		t.Errorf("video description missing codec: %q", desc)
	}
}

func TestDetectStreamCountLimits(t *testing.T) {
	audio := strings.Repeat(`{"codec_type": "audio", "codec_name": "aac"},`, 4)
	subs := strings.TrimSuffix(strings.Repeat(`{"codec_type": "subtitle", "codec_name": "subrip"},`, 6), ",")
	res := classifyJSON(t, `{
		"format": {"format_name": "matroska", "bit_rate": "8000000"},
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
			 "avg_frame_rate": "25/1", "pix_fmt": "yuv420p"},
			`+audio+subs+`
		]
	}`)
	r := defaults().Detect(res)

	if !r.MultipleAudioStreams {
		t.Error("4 audio streams should exceed the limit of 3")
	}
	if !r.HighSubtitleCount {
		t.Error("6 subtitle streams should exceed the limit of 5")
	}
	desc := r.Description()
	if !strings.Contains(desc, "Multiple audio streams: 4") {
		t.Errorf("missing audio count: %q", desc)
	}
	if !strings.Contains(desc, "High subtitle stream count: 6") {
		t.Errorf("missing subtitle count: %q", desc)
	}
}

func TestDetectFrameRateRules(t *testing.T) {
	t.Run("non-standard rate", func(t *testing.T) {
		res := classifyJSON(t, `{
			"format": {"format_name": "matroska", "bit_rate": "8000000"},
			"streams": [{
				"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
				"avg_frame_rate": "15/1", "pix_fmt": "yuv420p"
			}]
		}`)
		r := defaults().Detect(res)
		if !r.NonStandardFrameRate {
			t.Error("15 fps should fire the frame-rate rule")
		}
		if r.VariableFrameRate {
			t.Error("a single parsed rate is not variable")
		}
	})

	t.Run("diverging streams look variable", func(t *testing.T) {
		res := classifyJSON(t, `{
			"format": {"format_name": "matroska", "bit_rate": "8000000"},
			"streams": [
				{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
				 "avg_frame_rate": "25/1", "pix_fmt": "yuv420p"},
				{"codec_type": "video", "codec_name": "h264", "width": 640, "height": 480,
				 "avg_frame_rate": "30000/1001", "pix_fmt": "yuv420p"}
			]
		}`)
		r := defaults().Detect(res)
		if !r.VariableFrameRate {
			t.Error("diverging per-stream rates should fire the variable-rate rule")
		}
		if r.NonStandardFrameRate {
			t.Error("variable-rate files skip the standard-set check")
		}
	})
}

func TestDetectInterlacedAndProfile(t *testing.T) {
	res := classifyJSON(t, `{
		"format": {"format_name": "mpegts", "bit_rate": "8000000"},
		"streams": [{
			"codec_type": "video", "codec_name": "h264", "profile": "High 4:2:2",
			"width": 1920, "height": 1080, "avg_frame_rate": "25/1",
			"pix_fmt": "yuv422p10le", "field_order": "tt"
		}]
	}`)
	r := defaults().Detect(res)

	if !r.Interlaced {
		t.Error("field order tt should fire the interlace rule")
	}
	if !r.ComplexProfile {
		t.Error("High 4:2:2 should fire the profile rule")
	}
	if !r.HighBitDepth {
		t.Error("yuv422p10le should fire the bit-depth rule")
	}
	if !strings.Contains(r.Description(), "High bit depth: 10-bit") {
		t.Errorf("missing depth description: %q", r.Description())
	}
}

func TestDetectDolbyVisionProfile5(t *testing.T) {
	res := classifyJSON(t, `{
		"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "bit_rate": "30000000"},
		"streams": [{
			"codec_type": "video", "codec_name": "hevc", "width": 3840, "height": 2160,
			"avg_frame_rate": "24000/1001", "pix_fmt": "yuv420p10le",
			"color_transfer": "smpte2084",
			"side_data_list": [{"side_data_type": "DOVI configuration record", "dv_profile": 5}]
		}]
	}`)
	r := defaults().Detect(res)

	if !r.DolbyVisionP5 {
		t.Error("dv_profile 5 in side data should fire the DV rule")
	}
}

func TestDetectUncommonContainer(t *testing.T) {
	res := classifyJSON(t, `{
		"format": {"format_name": "flv", "bit_rate": "2000000"},
		"streams": [{
			"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720,
			"avg_frame_rate": "30/1", "pix_fmt": "yuv420p"
		}]
	}`)
	r := defaults().Detect(res)

	if !r.UncommonContainer {
		t.Error("flv should fire the container rule")
	}
	if !strings.Contains(r.Description(), "Uncommon container format: flv") {
		t.Errorf("missing container description: %q", r.Description())
	}
}

func TestDetectUnknownMetadata(t *testing.T) {
	t.Run("missing video codec", func(t *testing.T) {
		res := classifyJSON(t, `{
			"format": {"format_name": "matroska", "bit_rate": "8000000"},
			"streams": [{"codec_type": "audio", "codec_name": "aac"}]
		}`)
		r := defaults().Detect(res)
		if !r.UnknownMetadata {
			t.Error("a file with no video stream should fire unknown-metadata")
		}
	})

	t.Run("unparseable dimensions", func(t *testing.T) {
		res := classifyJSON(t, `{
			"format": {"format_name": "matroska", "bit_rate": "8000000"},
			"streams": [{
				"codec_type": "video", "codec_name": "h264",
				"width": "garbage", "height": 1080,
				"avg_frame_rate": "25/1", "pix_fmt": "yuv420p"
			}]
		}`)
		r := defaults().Detect(res)
		if !r.UnknownMetadata {
			t.Error("unparseable width should fire unknown-metadata")
		}
		if r.NonStandardResolution {
			t.Error("the resolution rule must be skipped when width is unparseable")
		}
	})

	t.Run("fires once", func(t *testing.T) {
		res := classifyJSON(t, `{
			"format": {"format_name": "matroska", "bit_rate": "8000000"},
			"streams": [
				{"codec_type": "audio"},
				{"codec_type": "subtitle"}
			]
		}`)
		r := defaults().Detect(res)
		n := 0
		for _, d := range r.Descriptions() {
			if strings.HasPrefix(d, "Unknown metadata") {
				n++
			}
		}
		if n != 1 {
			t.Errorf("unknown-metadata descriptions: got %d, want 1", n)
		}
	})
}

func TestDetectDeterministic(t *testing.T) {
	res := classifyJSON(t, hdrEightK)
	first := defaults().Detect(res).Description()
	for i := 0; i < 3; i++ {
		if got := defaults().Detect(res).Description(); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestDetectCustomSeparator(t *testing.T) {
	th := defaults()
	th.Separator = " | "
	r := th.Detect(classifyJSON(t, hdrEightK))
	want := "HDR content may require tone-mapping | Non-standard resolution: 7680x4320"
	if got := r.Description(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlagsMatchFlagNames(t *testing.T) {
	r := &Report{}
	flags := r.Flags()
	names := FlagNames()
	if len(flags) != len(names) {
		t.Fatalf("flags %d, names %d", len(flags), len(names))
	}
	for i, f := range flags {
		if f.Name != names[i] {
			t.Errorf("flag %d: got %q, want %q", i, f.Name, names[i])
		}
	}
}
