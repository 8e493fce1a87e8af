package ffmpeg

import (
	"strings"
	"testing"
)

// --- Speed token parsing ---

const statsOutput = `frame=   48 fps= 24 q=28.0 size=     256KiB time=00:00:02.00 bitrate=1048.6kbits/s speed=0.98x
frame=  120 fps= 30 q=28.0 size=     768KiB time=00:00:05.00 bitrate=1258.3kbits/s speed=1.45x
frame=  240 fps= 48 q=-1.0 Lsize=    2048KiB time=00:00:10.00 bitrate=1677.7kbits/s speed=2.01x
`

func TestLastSpeedTakesFinalToken(t *testing.T) {
	v, ok := LastSpeed(statsOutput)
	if !ok {
		t.Fatal("expected a speed token")
	}
	if v != 2.01 {
		t.Errorf("got %g, want 2.01", v)
	}
}

func TestLastSpeedVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"padded", "speed= 1.5x", 1.5, true},
		{"unpadded", "speed=12x", 12, true},
		{"no token", "frame= 48 fps= 24", 0, false},
		{"not applicable", "speed=N/A", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := LastSpeed(tt.input)
			if ok != tt.ok || v != tt.want {
				t.Errorf("got (%g, %v), want (%g, %v)", v, ok, tt.want, tt.ok)
			}
		})
	}
}

// --- Decode stderr classification ---

func TestClassifyDecodeErrorsCleanRun(t *testing.T) {
	if kinds := ClassifyDecodeErrors(""); kinds != nil {
		t.Errorf("clean stderr classified as %v", kinds)
	}
	if kinds := ClassifyDecodeErrors("  \n \n"); kinds != nil {
		t.Errorf("whitespace stderr classified as %v", kinds)
	}
}

func TestClassifyDecodeErrorsKnownKinds(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			"corrupt frame",
			"[h264 @ 0x55d] corrupt decoded frame in stream 0",
			"corrupt frame",
		},
		{
			"slice decode",
			"[h264 @ 0x55d] error while decoding MB 34 12, bytestream -15",
			"decode error",
		},
		{
			"missing reference",
			"[h264 @ 0x55d] Reference picture missing during reorder",
			"missing reference",
		},
		{
			"invalid container",
			"[mov,mp4,m4a,3gp,3g2,mj2 @ 0x5] moov atom not found",
			"invalid data",
		},
		{
			"bad input payload",
			"Invalid data found when processing input",
			"invalid data",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds := ClassifyDecodeErrors(tt.stderr)
			if len(kinds) == 0 {
				t.Fatal("no kinds reported")
			}
			found := false
			for _, k := range kinds {
				if k == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("kinds %v missing %q", kinds, tt.want)
			}
		})
	}
}

func TestClassifyDecodeErrorsUnknownOutput(t *testing.T) {
	kinds := ClassifyDecodeErrors("something completely novel went wrong")
	if len(kinds) != 1 || kinds[0] != "other" {
		t.Errorf("got %v, want [other]", kinds)
	}
}

func TestClassifyDecodeErrorsMultiple(t *testing.T) {
	stderr := strings.Join([]string{
		"[h264 @ 0x1] corrupt decoded frame in stream 0",
		"[h264 @ 0x1] error while decoding MB 1 1",
	}, "\n")
	kinds := ClassifyDecodeErrors(stderr)
	if len(kinds) != 2 {
		t.Fatalf("got %v, want two kinds", kinds)
	}
}
