package classify

import (
	"github.com/xoChrisCo/video-toolbox/internal/probe"
)

// SubtitleTrack is the per-stream subtitle detail, in stream order.
type SubtitleTrack struct {
	Codec    string
	Language string
	Forced   bool
}

// SubtitleSummary aggregates all embedded subtitle streams of a file.
type SubtitleSummary struct {
	Tracks      []SubtitleTrack
	StreamCount int
}

func classifySubtitle(doc *probe.Document) SubtitleSummary {
	streams := doc.SubtitleStreams()
	sum := SubtitleSummary{StreamCount: len(streams)}
	for _, s := range streams {
		forced := s.IsForced()
		if !forced {
			forced = containsFold(s.Tag("title"), "forced")
		}
		sum.Tracks = append(sum.Tracks, SubtitleTrack{
			Codec:    orNA(s.CodecName),
			Language: orNA(s.Tag("language")),
			Forced:   forced,
		})
	}
	return sum
}

// Languages returns the language tags in stream order, one per track.
func (s SubtitleSummary) Languages() []string {
	out := make([]string, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		out = append(out, t.Language)
	}
	return out
}

// Codecs returns the comma joined subtitle codec names.
func (s SubtitleSummary) Codecs() string {
	out := make([]string, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		out = append(out, t.Codec)
	}
	return jointag(out)
}

// MissingCodec reports whether any subtitle stream lacks a codec name.
func (s SubtitleSummary) MissingCodec() bool {
	for _, t := range s.Tracks {
		if t.Codec == NA || t.Codec == "" {
			return true
		}
	}
	return false
}

// ForcedCount returns the number of forced subtitle tracks.
func (s SubtitleSummary) ForcedCount() int {
	n := 0
	for _, t := range s.Tracks {
		if t.Forced {
			n++
		}
	}
	return n
}
