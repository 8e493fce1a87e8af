package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/record"
)

// maxAudioBucket caps the soundtrack and language histograms: files with
// this many or more streams share the last bucket.
const maxAudioBucket = 4

// resolutionCategories in match order, largest first. A file lands in the
// first category both of its dimensions reach.
var resolutionCategories = []struct {
	Name                string
	MinWidth, MinHeight int
}{
	{"8K", 7680, 4320},
	{"4K", 3840, 2160},
	{"1080p", 1920, 1080},
	{"720p", 1280, 720},
	{"480p", 720, 480},
	{"SD", 0, 0},
}

// Failure is one file whose probe failed.
type Failure struct {
	Path   string
	Reason string
}

// Collection is the finished aggregate over one run's records.
type Collection struct {
	Root     string
	RunID    string
	Started  time.Time
	Elapsed  time.Duration
	TopCount int

	Processed int
	Failed    int
	Failures  []Failure

	TotalBytes   int64
	TotalSeconds float64
	TotalFrames  float64
	TotalPixels  float64

	Containers *Counter

	Codecs               *Counter
	BitDepths            *Counter
	ColorSpaces          *Counter
	HDRCount             int
	SDRCount             int
	Resolutions          *Counter
	ResolutionCategories *Counter
	AverageBitrateMbps   float64

	SoundtrackCounts [maxAudioBucket + 1]int
	LanguageCounts   [maxAudioBucket + 1]int
	AtmosCount       int
	CommentaryCount  int
	AudioLanguages   *Counter
	SingleLanguage   *Counter
	ChannelFormats   *Counter
	ChannelLayouts   *Counter
	AudioFormats     *Counter

	EmbeddedSubtitleCount int
	EmbeddedSubLanguages  *Counter
	EmbeddedSubFormats    *Counter
	FolderSubLanguages    *Counter
	CombinedSubLanguages  *Counter
	MissingSubtitles      int
	MissingEnglishSubs    int
	MissingNorwegianSubs  int
	ForcedSubtitles       int

	IssueCounts *Counter
	CleanFiles  int

	BySize     Ranking
	ByDuration Ranking
	ByBitrate  Ranking

	// Errors lists per-field exclusions: a record that could not feed one
	// statistic, with the reason.
	Errors []string
}

// Aggregator folds records into a Collection. One per run: Add every
// record, then Finish for the snapshot.
type Aggregator struct {
	c            *Collection
	bitrateSum   float64
	bitrateCount int
}

// NewAggregator starts an empty aggregation for the given scan root.
// topCount sizes the top/bottom listings; zero means the default of 10.
func NewAggregator(root string, topCount int) *Aggregator {
	if topCount <= 0 {
		topCount = 10
	}
	return &Aggregator{c: &Collection{
		Root:     root,
		Started:  time.Now(),
		TopCount: topCount,

		Containers:           NewCounter(),
		Codecs:               NewCounter(),
		BitDepths:            NewCounter(),
		ColorSpaces:          NewCounter(),
		Resolutions:          NewCounter(),
		ResolutionCategories: NewCounter(),
		AudioLanguages:       NewCounter(),
		SingleLanguage:       NewCounter(),
		ChannelFormats:       NewCounter(),
		ChannelLayouts:       NewCounter(),
		AudioFormats:         NewCounter(),
		EmbeddedSubLanguages: NewCounter(),
		EmbeddedSubFormats:   NewCounter(),
		FolderSubLanguages:   NewCounter(),
		CombinedSubLanguages: NewCounter(),
		IssueCounts:          NewCounter(),
	}}
}

// Add folds one record in. Failed records count toward the failure tally
// and contribute nothing else.
func (a *Aggregator) Add(rec *record.FileRecord) {
	c := a.c
	if rec.Failed {
		c.Failed++
		c.Failures = append(c.Failures, Failure{Path: rec.Path, Reason: rec.Reason})
		return
	}
	c.Processed++

	f := rec.Media.Format
	v := rec.Media.Video
	au := rec.Media.Audio
	sub := rec.Media.Subtitle

	c.TotalBytes += rec.Size
	c.Containers.Inc(f.Container)

	a.addVideo(rec, v)
	a.addTotals(rec, f, v)
	a.addAudio(au)
	a.addSubtitles(rec, sub)
	a.addIssues(rec)
}

func (a *Aggregator) addVideo(rec *record.FileRecord, v classify.VideoSummary) {
	c := a.c
	c.Codecs.Inc(v.Codec)
	c.BitDepths.Inc(v.BitDepth)
	c.ColorSpaces.Inc(v.ColorSpace)
	if v.HDR {
		c.HDRCount++
	} else {
		c.SDRCount++
	}

	w, okW := v.Width.Int()
	h, okH := v.Height.Int()
	if okW && okH {
		c.Resolutions.Inc(fmt.Sprintf("%dx%d", w, h))
		c.ResolutionCategories.Inc(resolutionCategory(w, h))
	} else {
		a.exclude(rec.Path, "resolution")
	}
}

func (a *Aggregator) addTotals(rec *record.FileRecord, f classify.FormatSummary, v classify.VideoSummary) {
	c := a.c
	c.BySize.Add(rec.Path, float64(rec.Size))

	dur, okD := f.Duration.Float64()
	if okD {
		c.TotalSeconds += dur
		c.ByDuration.Add(rec.Path, dur)
	} else {
		a.exclude(rec.Path, "duration")
	}

	fps, okF := v.FPS.Float64()
	if okD && okF {
		c.TotalFrames += dur * fps
		if w, okW := v.Width.Float64(); okW {
			if h, okH := v.Height.Float64(); okH {
				c.TotalPixels += dur * fps * w * h
			}
		}
	}

	if br, ok := v.BitRate.Float64(); ok {
		mbps := br / 1e6
		c.ByBitrate.Add(rec.Path, mbps)
		a.bitrateSum += mbps
		a.bitrateCount++
	} else {
		a.exclude(rec.Path, "video bitrate")
	}
}

func (a *Aggregator) addAudio(au classify.AudioSummary) {
	c := a.c
	c.SoundtrackCounts[bucket(au.StreamCount)]++

	langs := canonicalSet(au.Languages())
	c.LanguageCounts[bucket(len(langs))]++
	c.AudioLanguages.IncAll(langs)
	if len(langs) == 1 {
		c.SingleLanguage.Inc(langs[0])
	}
	if au.HasAtmos() {
		c.AtmosCount++
	}
	if au.HasCommentary() {
		c.CommentaryCount++
	}

	var channels, layouts, codecs []string
	for _, t := range au.Tracks {
		channels = append(channels, t.Channels.Display())
		layouts = append(layouts, t.ChannelLayout)
		codecs = append(codecs, t.Codec)
	}
	c.ChannelFormats.IncAll(uniqueSorted(channels))
	c.ChannelLayouts.IncAll(uniqueSorted(layouts))
	c.AudioFormats.IncAll(uniqueSorted(codecs))
}

func (a *Aggregator) addSubtitles(rec *record.FileRecord, sub classify.SubtitleSummary) {
	c := a.c
	c.EmbeddedSubtitleCount += sub.StreamCount

	embedded := canonicalAll(sub.Languages())
	folder := folderLanguages(rec.FolderSubs)
	c.EmbeddedSubLanguages.IncAll(embedded)
	c.FolderSubLanguages.IncAll(folder)
	c.CombinedSubLanguages.IncAll(embedded)
	c.CombinedSubLanguages.IncAll(folder)

	for _, t := range sub.Tracks {
		if t.Codec != classify.NA {
			c.EmbeddedSubFormats.Inc(t.Codec)
		}
	}

	if sub.StreamCount == 0 && len(rec.FolderSubs) == 0 {
		c.MissingSubtitles++
	}
	all := append(append([]string{}, embedded...), folder...)
	if !hasLanguage(all, "eng") {
		c.MissingEnglishSubs++
	}
	if !hasLanguage(all, "nor") {
		c.MissingNorwegianSubs++
	}
	if sub.ForcedCount() > 0 || anyContains(rec.FolderSubs, "forced") {
		c.ForcedSubtitles++
	}
}

func (a *Aggregator) addIssues(rec *record.FileRecord) {
	if rec.Issues == nil || !rec.Issues.Any() {
		a.c.CleanFiles++
		return
	}
	for _, fl := range rec.Issues.Flags() {
		if fl.Set {
			a.c.IssueCounts.Inc(fl.Name)
		}
	}
}

// Finish closes the aggregation and returns the snapshot.
func (a *Aggregator) Finish() *Collection {
	c := a.c
	c.Elapsed = time.Since(c.Started)
	if a.bitrateCount > 0 {
		c.AverageBitrateMbps = a.bitrateSum / float64(a.bitrateCount)
	}
	return c
}

func (a *Aggregator) exclude(path, what string) {
	a.c.Errors = append(a.c.Errors, fmt.Sprintf("%s: no usable %s", path, what))
}

func resolutionCategory(w, h int) string {
	for _, cat := range resolutionCategories {
		if w >= cat.MinWidth && h >= cat.MinHeight {
			return cat.Name
		}
	}
	return "SD"
}

func bucket(n int) int {
	if n > maxAudioBucket {
		return maxAudioBucket
	}
	if n < 0 {
		return 0
	}
	return n
}

// canonicalSet folds tags to canonical form and dedupes, sorted for
// deterministic counting.
func canonicalSet(tags []string) []string {
	return uniqueSorted(canonicalAll(tags))
}

func canonicalAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, CanonicalLanguage(t))
	}
	return out
}

func uniqueSorted(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func anyContains(vals []string, substr string) bool {
	for _, v := range vals {
		if strings.Contains(strings.ToLower(v), substr) {
			return true
		}
	}
	return false
}
