package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/issues"
	"github.com/xoChrisCo/video-toolbox/internal/probe"
	"github.com/xoChrisCo/video-toolbox/internal/record"
)

// --- Helper builders ---

const hdrRemuxJSON = `{
	"format": {"format_name": "matroska,webm", "duration": "6000.000000", "bit_rate": "45000000"},
	"streams": [
		{
			"codec_type": "video", "codec_name": "hevc", "width": 3840, "height": 2160,
			"pix_fmt": "yuv420p10le", "color_transfer": "smpte2084", "color_space": "bt2020nc",
			"avg_frame_rate": "24000/1001", "bit_rate": "45000000"
		},
		{
			"codec_type": "audio", "codec_name": "aac", "channels": 6, "channel_layout": "5.1",
			"sample_rate": "48000", "tags": {"language": "eng"}
		},
		{
			"codec_type": "audio", "codec_name": "aac", "channels": 2, "channel_layout": "stereo",
			"sample_rate": "48000", "tags": {"language": "nor"}
		},
		{"codec_type": "subtitle", "codec_name": "subrip", "tags": {"language": "eng"}}
	]
}`

const webEncodeJSON = `{
	"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "5400.000000", "bit_rate": "4500000"},
	"streams": [
		{
			"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
			"pix_fmt": "yuv420p", "color_transfer": "bt709", "color_space": "bt709",
			"avg_frame_rate": "24000/1001", "bit_rate": "4500000"
		},
		{
			"codec_type": "audio", "codec_name": "aac", "channels": 2, "channel_layout": "stereo",
			"sample_rate": "48000", "tags": {"language": "en"}
		}
	]
}`

func detection() issues.Thresholds {
	return issues.Thresholds{
		HighBitrateMbps:     20,
		LowBitrateMbps:      1,
		VeryHighBitrateMbps: 100,
		MaxSubtitleStreams:  5,
		MaxAudioStreams:     3,
	}
}

func makeRecord(t *testing.T, path, raw string, size int64, folderSubs []string) *record.FileRecord {
	t.Helper()
	doc, err := probe.ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	res := classify.Classify(doc)
	rec := record.New(path, nil, res, detection().Detect(res))
	rec.Size = size
	rec.FolderSubs = folderSubs
	return rec
}

func aggregateFixture(t *testing.T) *Collection {
	t.Helper()
	agg := NewAggregator("/library", 0)
	agg.Add(makeRecord(t, "/library/remux.mkv", hdrRemuxJSON, 40<<30, []string{"no"}))
	agg.Add(makeRecord(t, "/library/web.mp4", webEncodeJSON, 4<<30, []string{"en"}))
	agg.Add(record.NewError("/library/broken.avi", "exit status 1"))
	return agg.Finish()
}

// --- Aggregation tests ---

func TestAggregateCounts(t *testing.T) {
	c := aggregateFixture(t)

	if c.Processed != 2 {
		t.Errorf("processed: got %d, want 2", c.Processed)
	}
	if c.Failed != 1 {
		t.Errorf("failed: got %d, want 1", c.Failed)
	}
	if len(c.Failures) != 1 || c.Failures[0].Path != "/library/broken.avi" {
		t.Errorf("failures: got %+v", c.Failures)
	}
	if c.HDRCount != 1 || c.SDRCount != 1 {
		t.Errorf("HDR/SDR: got %d/%d, want 1/1", c.HDRCount, c.SDRCount)
	}
	if got := c.Codecs.Get("hevc"); got != 1 {
		t.Errorf("hevc count: got %d", got)
	}
	if got := c.Resolutions.Get("3840x2160"); got != 1 {
		t.Errorf("resolution count: got %d", got)
	}
	if got := c.ResolutionCategories.Get("4K"); got != 1 {
		t.Errorf("4K category: got %d", got)
	}
	if got := c.ResolutionCategories.Get("1080p"); got != 1 {
		t.Errorf("1080p category: got %d", got)
	}
	if got := c.TotalBytes; got != 44<<30 {
		t.Errorf("total bytes: got %d", got)
	}
	if want := 11400.0; c.TotalSeconds != want {
		t.Errorf("total seconds: got %v, want %v", c.TotalSeconds, want)
	}
	if want := 11400 * 23.976; math.Abs(c.TotalFrames-want) > 1e-6 {
		t.Errorf("total frames: got %v, want %v", c.TotalFrames, want)
	}
	if c.TotalPixels <= 0 {
		t.Errorf("total pixels: got %v", c.TotalPixels)
	}
}

func TestAggregateAudio(t *testing.T) {
	c := aggregateFixture(t)

	if got := c.SoundtrackCounts[2]; got != 1 {
		t.Errorf("two-soundtrack bucket: got %d", got)
	}
	if got := c.SoundtrackCounts[1]; got != 1 {
		t.Errorf("one-soundtrack bucket: got %d", got)
	}
	if got := c.AudioLanguages.Get("eng"); got != 2 {
		t.Errorf("eng files: got %d, want 2 (two-letter tag folds in)", got)
	}
	if got := c.AudioLanguages.Get("nor"); got != 1 {
		t.Errorf("nor files: got %d", got)
	}
	if got := c.LanguageCounts[2]; got != 1 {
		t.Errorf("two-language bucket: got %d", got)
	}
	if got := c.SingleLanguage.Get("eng"); got != 1 {
		t.Errorf("single-language eng: got %d", got)
	}
	if got := c.ChannelLayouts.Get("stereo"); got != 2 {
		t.Errorf("stereo layout files: got %d", got)
	}
}

func TestAggregateSubtitles(t *testing.T) {
	c := aggregateFixture(t)

	if c.EmbeddedSubtitleCount != 1 {
		t.Errorf("embedded count: got %d", c.EmbeddedSubtitleCount)
	}
	if got := c.CombinedSubLanguages.Get("eng"); got != 2 {
		t.Errorf("combined eng: got %d", got)
	}
	if got := c.CombinedSubLanguages.Get("nor"); got != 1 {
		t.Errorf("combined nor: got %d", got)
	}
	if c.MissingSubtitles != 0 {
		t.Errorf("missing subtitles: got %d, want 0 (folder subs count)", c.MissingSubtitles)
	}
	if c.MissingEnglishSubs != 0 {
		t.Errorf("missing eng: got %d", c.MissingEnglishSubs)
	}
	if c.MissingNorwegianSubs != 1 {
		t.Errorf("missing nor: got %d, want 1", c.MissingNorwegianSubs)
	}
}

func TestAggregateIssues(t *testing.T) {
	c := aggregateFixture(t)

	if c.CleanFiles != 1 {
		t.Errorf("clean files: got %d, want 1", c.CleanFiles)
	}
	for _, flag := range []string{"HDR Content", "4K Content", "High Bitrate", "High Bit Depth"} {
		if got := c.IssueCounts.Get(flag); got != 1 {
			t.Errorf("issue %q: got %d, want 1", flag, got)
		}
	}
}

func TestAggregateBitrates(t *testing.T) {
	c := aggregateFixture(t)

	if c.ByBitrate.Len() != 2 {
		t.Fatalf("ranked bitrates: got %d", c.ByBitrate.Len())
	}
	if want := (45.0 + 4.5) / 2; math.Abs(c.AverageBitrateMbps-want) > 1e-9 {
		t.Errorf("average bitrate: got %v, want %v", c.AverageBitrateMbps, want)
	}
	top := c.ByBitrate.Top(1)
	if top[0].Path != "/library/remux.mkv" {
		t.Errorf("top bitrate: got %q", top[0].Path)
	}
}

func TestAggregateExcludesUnparseable(t *testing.T) {
	raw := `{
		"format": {"format_name": "avi", "duration": "N/A"},
		"streams": [{"codec_type": "video", "codec_name": "mpeg4", "width": 640, "height": 480, "avg_frame_rate": "25/1"}]
	}`
	agg := NewAggregator("/library", 0)
	agg.Add(makeRecord(t, "/library/odd.avi", raw, 100, nil))
	c := agg.Finish()

	if c.Processed != 1 {
		t.Fatalf("processed: got %d", c.Processed)
	}
	if c.TotalSeconds != 0 {
		t.Errorf("total seconds: got %v", c.TotalSeconds)
	}
	if c.ByDuration.Len() != 0 {
		t.Errorf("duration ranking: got %d entries", c.ByDuration.Len())
	}
	if len(c.Errors) == 0 {
		t.Fatal("expected exclusion entries")
	}
	found := false
	for _, e := range c.Errors {
		if strings.Contains(e, "duration") && strings.Contains(e, "odd.avi") {
			found = true
		}
	}
	if !found {
		t.Errorf("no duration exclusion logged: %v", c.Errors)
	}
}

// --- Unit tests ---

func TestCanonicalLanguage(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"en", "eng"},
		{"EN", "eng"},
		{"eng", "eng"},
		{" no ", "nor"},
		{"N/A", "N/A"},
		{"n/a", "N/A"},
		{"qaa", "qaa"},
	}
	for _, tc := range cases {
		if got := CanonicalLanguage(tc.in); got != tc.want {
			t.Errorf("CanonicalLanguage(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasLanguage(t *testing.T) {
	if !hasLanguage([]string{"en.forced"}, "eng") {
		t.Error("dotted folder tag should match eng")
	}
	if hasLanguage([]string{"ben"}, "eng") {
		t.Error("bengali must not match eng")
	}
	if !hasLanguage([]string{"fre", "nor"}, "nor") {
		t.Error("plain three-letter tag should match")
	}
}

func TestResolutionCategory(t *testing.T) {
	cases := []struct {
		w, h int
		want string
	}{
		{7680, 4320, "8K"},
		{3840, 2160, "4K"},
		{1920, 1080, "1080p"},
		{1280, 720, "720p"},
		{720, 480, "480p"},
		{640, 360, "SD"},
		// Cropped scope 4K: height misses the 4K floor, so it files as 1080p.
		{3840, 1600, "1080p"},
	}
	for _, tc := range cases {
		if got := resolutionCategory(tc.w, tc.h); got != tc.want {
			t.Errorf("resolutionCategory(%d, %d): got %q, want %q", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestBucket(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 3: 3, 4: 4, 9: 4, -1: 0}
	for in, want := range cases {
		if got := bucket(in); got != want {
			t.Errorf("bucket(%d): got %d, want %d", in, got, want)
		}
	}
}

func TestCounterOrder(t *testing.T) {
	c := NewCounter()
	c.IncAll([]string{"b", "a", "b", "c", "c"})
	got := c.Entries()
	want := []Entry{{"b", 2}, {"c", 2}, {"a", 1}}
	if len(got) != len(want) {
		t.Fatalf("entries: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRankingTopBottom(t *testing.T) {
	var r Ranking
	r.Add("/a", 1)
	r.Add("/b", 3)
	r.Add("/c", 2)

	top := r.Top(2)
	if top[0].Path != "/b" || top[1].Path != "/c" {
		t.Errorf("top: got %+v", top)
	}
	bottom := r.Bottom(2)
	if bottom[0].Path != "/c" || bottom[1].Path != "/a" {
		t.Errorf("bottom: got %+v", bottom)
	}
}

// --- Report tests ---

func TestRenderReport(t *testing.T) {
	c := aggregateFixture(t)
	var buf bytes.Buffer
	c.Render(&buf, false)
	out := buf.String()

	for _, want := range []string{
		"Media Inventory Statistics",
		"Script Statistics:",
		"Folder scanned:",
		"File Statistics:",
		"Video Statistics:",
		"Audio Statistics:",
		"Subtitle Statistics:",
		"Issue Statistics:",
		"Failed files (up to 10):",
		"/library/broken.avi",
		"4K",
		"eng",
		"Top/bottom bitrates:",
		"45.00 Mbps",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(out, "\033") {
		t.Error("plain report contains ANSI escapes")
	}
}

func TestRenderEmptyCollection(t *testing.T) {
	c := NewAggregator("/empty", 0).Finish()
	var buf bytes.Buffer
	c.Render(&buf, false)
	out := buf.String()

	if !strings.Contains(out, "Files processed:") {
		t.Error("empty report missing processed line")
	}
	if !strings.Contains(out, "(no data)") {
		t.Error("empty report missing ranking placeholder")
	}
}
