package classify

import (
	"github.com/xoChrisCo/video-toolbox/internal/probe"
)

// AudioTrack is the per-stream audio detail, in stream order.
type AudioTrack struct {
	Codec         string
	CodecLongName string
	Channels      probe.Num
	ChannelLayout string
	SampleRate    probe.Num
	BitRate       probe.Num
	BitDepth      string
	Language      string
	Title         string
	Default       bool
	Atmos         bool
	Commentary    bool
}

// AudioSummary aggregates all audio streams of a file.
type AudioSummary struct {
	Tracks      []AudioTrack
	StreamCount int
}

func classifyAudio(doc *probe.Document) AudioSummary {
	streams := doc.AudioStreams()
	sum := AudioSummary{StreamCount: len(streams)}
	for _, s := range streams {
		title := s.Tag("title")
		sum.Tracks = append(sum.Tracks, AudioTrack{
			Codec:         orNA(s.CodecName),
			CodecLongName: orNA(s.CodecLongName),
			Channels:      s.Channels,
			ChannelLayout: orNA(s.ChannelLayout),
			SampleRate:    s.SampleRate,
			BitRate:       audioBitRate(s),
			BitDepth:      audioBitDepth(s),
			Language:      orNA(s.Tag("language")),
			Title:         title,
			Default:       s.IsDefault(),
			Atmos:         isAtmos(s, title),
			Commentary:    containsFold(title, "commentary"),
		})
	}
	return sum
}

func audioBitRate(s probe.Stream) probe.Num {
	if s.BitRate.Present() {
		return s.BitRate
	}
	if bps := s.Tag("BPS"); bps != "" {
		return probe.NumFromString(bps)
	}
	return s.BitRate
}

func audioBitDepth(s probe.Stream) string {
	if s.BitsPerRawSample.Present() {
		return s.BitsPerRawSample.Display()
	}
	return NA
}

// isAtmos checks the structured fields that carry an Atmos marker: the
// codec profile ffprobe reports for TrueHD and E-AC-3 Atmos tracks, and
// the track title muxers commonly label.
func isAtmos(s probe.Stream, title string) bool {
	if containsFold(s.Profile, "atmos") {
		return true
	}
	if containsFold(title, "atmos") {
		return true
	}
	return false
}

// Codecs returns the comma joined codec names in stream order.
func (a AudioSummary) Codecs() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.Codec }))
}

// CodecLongNames returns the comma joined long codec names.
func (a AudioSummary) CodecLongNames() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.CodecLongName }))
}

// Channels returns the comma joined channel counts.
func (a AudioSummary) Channels() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.Channels.Display() }))
}

// ChannelLayouts returns the comma joined channel layouts.
func (a AudioSummary) ChannelLayouts() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.ChannelLayout }))
}

// SampleRates returns the comma joined sample rates.
func (a AudioSummary) SampleRates() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.SampleRate.Display() }))
}

// BitRates returns the comma joined per-stream bitrates.
func (a AudioSummary) BitRates() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.BitRate.Display() }))
}

// BitDepths returns the comma joined bit depths.
func (a AudioSummary) BitDepths() string {
	return jointag(a.collect(func(t AudioTrack) string { return t.BitDepth }))
}

// Languages returns the raw language tags in stream order, one per track.
func (a AudioSummary) Languages() []string {
	return a.collect(func(t AudioTrack) string { return t.Language })
}

// LanguagesDedup returns the distinct language tags, first occurrence wins.
func (a AudioSummary) LanguagesDedup() []string {
	return dedup(a.Languages())
}

// DefaultLanguage returns the language of the default audio track, falling
// back to the first track when no disposition is flagged.
func (a AudioSummary) DefaultLanguage() string {
	for _, t := range a.Tracks {
		if t.Default {
			return t.Language
		}
	}
	if len(a.Tracks) > 0 {
		return a.Tracks[0].Language
	}
	return NA
}

// HasAtmos reports whether any track carries an Atmos marker.
func (a AudioSummary) HasAtmos() bool {
	for _, t := range a.Tracks {
		if t.Atmos {
			return true
		}
	}
	return false
}

// HasCommentary reports whether any track is titled as commentary.
func (a AudioSummary) HasCommentary() bool {
	for _, t := range a.Tracks {
		if t.Commentary {
			return true
		}
	}
	return false
}

// MissingCodec reports whether any present track has no codec name.
func (a AudioSummary) MissingCodec() bool {
	for _, t := range a.Tracks {
		if t.Codec == NA {
			return true
		}
	}
	return false
}

func (a AudioSummary) collect(f func(AudioTrack) string) []string {
	out := make([]string, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		out = append(out, f(t))
	}
	return out
}
