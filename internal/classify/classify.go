package classify

import (
	"strings"

	"github.com/xoChrisCo/video-toolbox/internal/probe"
)

// NA is the display sentinel for fields that are missing or unusable.
// It never appears inside classification logic, only in rendered values.
const NA = "N/A"

// Result holds the per-file summaries derived from one probe document.
type Result struct {
	Format   FormatSummary
	Video    VideoSummary
	Audio    AudioSummary
	Subtitle SubtitleSummary
}

// FormatSummary describes the container.
type FormatSummary struct {
	Container     string
	ContainerLong string
	Duration      probe.Num
	Size          probe.Num
	BitRate       probe.Num
}

// Classify derives all stream summaries from a parsed probe document.
func Classify(doc *probe.Document) Result {
	return Result{
		Format:   classifyFormat(doc),
		Video:    classifyVideo(doc),
		Audio:    classifyAudio(doc),
		Subtitle: classifySubtitle(doc),
	}
}

func classifyFormat(doc *probe.Document) FormatSummary {
	return FormatSummary{
		Container:     orNA(doc.Format.FormatName),
		ContainerLong: orNA(doc.Format.FormatLongName),
		Duration:      doc.Format.Duration,
		Size:          doc.Format.Size,
		BitRate:       doc.Format.BitRate,
	}
}

// orNA maps the empty string to the display sentinel.
func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}

// jointag renders a per-stream value list as a comma separated string.
// An empty list renders as the sentinel so downstream columns stay non-empty.
func jointag(vals []string) string {
	if len(vals) == 0 {
		return NA
	}
	return strings.Join(vals, ", ")
}

// dedup keeps the first occurrence of each value, preserving order.
func dedup(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
