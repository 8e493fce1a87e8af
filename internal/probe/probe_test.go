package probe

import (
	"encoding/json"
	"testing"
)

func TestNumFromString(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		present     bool
		parsed      bool
		val         float64
		display     string
		unparseable bool
	}{
		{"integer", "1920", true, true, 1920, "1920", false},
		{"decimal", "23.976", true, true, 23.976, "23.976", false},
		{"padded", "  48000 ", true, true, 48000, "48000", false},
		{"ffprobe sentinel", "N/A", false, false, 0, "N/A", false},
		{"lowercase sentinel", "n/a", false, false, 0, "N/A", false},
		{"empty", "", false, false, 0, "N/A", false},
		{"garbage stays visible", "unknown", true, false, 0, "unknown", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NumFromString(tt.in)
			if n.Present() != tt.present {
				t.Errorf("Present() = %v, want %v", n.Present(), tt.present)
			}
			v, ok := n.Float64()
			if ok != tt.parsed || (ok && v != tt.val) {
				t.Errorf("Float64() = %v, %v, want %v, %v", v, ok, tt.val, tt.parsed)
			}
			if n.Display() != tt.display {
				t.Errorf("Display() = %q, want %q", n.Display(), tt.display)
			}
			if n.Unparseable() != tt.unparseable {
				t.Errorf("Unparseable() = %v, want %v", n.Unparseable(), tt.unparseable)
			}
		})
	}
}

func TestNumIntTruncates(t *testing.T) {
	n := NumFromString("23.976")
	if i, ok := n.Int(); !ok || i != 23 {
		t.Errorf("Int() = %d, %v, want 23, true", i, ok)
	}
	if i64, ok := n.Int64(); !ok || i64 != 23 {
		t.Errorf("Int64() = %d, %v, want 23, true", i64, ok)
	}
	if _, ok := (Num{}).Int(); ok {
		t.Error("absent Num must not report an int")
	}
}

// TestNumUnmarshalForms covers the shapes ffprobe actually emits: bare
// numbers, quoted numbers, null, and fields that are missing outright.
func TestNumUnmarshalForms(t *testing.T) {
	var doc struct {
		Bare    Num `json:"bare"`
		Quoted  Num `json:"quoted"`
		Null    Num `json:"null"`
		Text    Num `json:"text"`
		Missing Num `json:"missing"`
	}
	raw := `{"bare": 1080, "quoted": "5000000", "null": null, "text": "unknown"}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v, ok := doc.Bare.Float64(); !ok || v != 1080 {
		t.Errorf("bare number: got %v, %v", v, ok)
	}
	if v, ok := doc.Quoted.Float64(); !ok || v != 5000000 {
		t.Errorf("quoted number: got %v, %v", v, ok)
	}
	if doc.Null.Present() {
		t.Error("null must stay absent")
	}
	if !doc.Text.Unparseable() {
		t.Error("text value must be present but unparseable")
	}
	if doc.Missing.Present() {
		t.Error("missing field must stay absent")
	}
}

const sampleProbe = `{
	"format": {
		"filename": "/media/film.mkv",
		"nb_streams": 4,
		"format_name": "matroska,webm",
		"format_long_name": "Matroska / WebM",
		"duration": "5400.123000",
		"size": "4294967296",
		"bit_rate": "6361600",
		"tags": {"title": "Film"}
	},
	"streams": [
		{
			"index": 0, "codec_type": "video", "codec_name": "hevc",
			"width": 3840, "height": 2160, "pix_fmt": "yuv420p10le",
			"avg_frame_rate": "24000/1001", "color_transfer": "smpte2084",
			"tags": {"BPS": "5500000"}
		},
		{
			"index": 1, "codec_type": "audio", "codec_name": "truehd",
			"channels": 8, "sample_rate": "48000",
			"disposition": {"default": 1, "forced": 0},
			"tags": {"language": "eng", "title": "TrueHD Atmos"}
		},
		{
			"index": 2, "codec_type": "audio", "codec_name": "ac3",
			"channels": 2,
			"disposition": {"default": 0, "forced": 0},
			"tags": {"LANGUAGE": "nor"}
		},
		{
			"index": 3, "codec_type": "subtitle", "codec_name": "subrip",
			"disposition": {"default": 0, "forced": 1},
			"tags": {"language": "eng"}
		}
	]
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if doc.Format.FormatName != "matroska,webm" {
		t.Errorf("format_name = %q", doc.Format.FormatName)
	}
	if d, ok := doc.Format.Duration.Float64(); !ok || d != 5400.123 {
		t.Errorf("duration = %v, %v", d, ok)
	}
	if len(doc.Raw) != len(sampleProbe) {
		t.Error("raw document body not retained")
	}

	if n := len(doc.VideoStreams()); n != 1 {
		t.Fatalf("video streams = %d, want 1", n)
	}
	if n := len(doc.AudioStreams()); n != 2 {
		t.Fatalf("audio streams = %d, want 2", n)
	}
	if n := len(doc.SubtitleStreams()); n != 1 {
		t.Fatalf("subtitle streams = %d, want 1", n)
	}

	v := doc.VideoStreams()[0]
	if w, ok := v.Width.Int(); !ok || w != 3840 {
		t.Errorf("width = %d, %v", w, ok)
	}
	if v.Tag("bps") != "5500000" {
		t.Errorf("BPS tag lookup by lower case failed: %q", v.Tag("bps"))
	}

	audio := doc.AudioStreams()
	if !audio[0].IsDefault() || audio[1].IsDefault() {
		t.Error("default disposition mapped to the wrong track")
	}
	// Tag casing varies across muxers; lookup falls back to upper case.
	if audio[1].Tag("language") != "nor" {
		t.Errorf("language via LANGUAGE tag: got %q", audio[1].Tag("language"))
	}

	if !doc.SubtitleStreams()[0].IsForced() {
		t.Error("forced disposition missed")
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	if _, err := ParseDocument([]byte(`{"format": `)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}
