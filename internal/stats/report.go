package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/xoChrisCo/video-toolbox/internal/display"
	"github.com/xoChrisCo/video-toolbox/internal/term"
)

// labelWidth aligns the value column across the whole report.
const labelWidth = 45

// maxFailureLines caps the failed-file listing in the report body.
const maxFailureLines = 10

// Render writes the full statistics report to w. The colored form goes to
// the console, the plain form to the statistics file.
func (c *Collection) Render(w io.Writer, colored bool) {
	r := &reporter{w: w, colored: colored}

	r.line("")
	r.line(strings.Repeat("=", 50))
	r.line(r.paint(term.Cyan, "Media Inventory Statistics"))
	r.line(strings.Repeat("=", 50))
	r.line("")

	c.renderScript(r)
	c.renderFiles(r)
	c.renderVideo(r)
	c.renderAudio(r)
	c.renderSubtitles(r)
	c.renderIssues(r)
	c.renderErrors(r)
}

func (c *Collection) renderScript(r *reporter) {
	r.header("Script Statistics:")
	r.stat(0, "Folder scanned:", c.Root)
	if c.RunID != "" {
		r.stat(0, "Run ID:", c.RunID)
	}
	r.stat(0, "Time to execute script:", display.FormatDuration(c.Elapsed.Seconds()))
	r.stat(0, "Files processed:", display.FormatCount(int64(c.Processed)))
	r.stat(0, "Files failed:", display.FormatCount(int64(c.Failed)))
	if c.Failed > 0 {
		r.section(0, fmt.Sprintf("Failed files (up to %d):", maxFailureLines))
		for i, fl := range c.Failures {
			if i == maxFailureLines {
				r.stat(2, fmt.Sprintf("... and %d more", c.Failed-maxFailureLines), "")
				break
			}
			r.stat(2, fl.Path, fl.Reason)
		}
	}

	r.stat(0, "Total file size processed:", display.FormatBytes(c.TotalBytes))
	r.stat(0, "Total amount of frames:", countPair(c.TotalFrames))
	r.stat(0, "Total number of pixels:", countPair(c.TotalPixels))
	r.stat(0, "Total runtime:", display.FormatDuration(c.TotalSeconds))
	if c.Processed > 0 {
		r.stat(0, "Average runtime:", display.FormatDuration(c.TotalSeconds/float64(c.Processed)))
	}

	secs := c.Elapsed.Seconds()
	if c.Processed > 0 && secs > 0 {
		r.stat(0, "Files / second:", fmt.Sprintf("%.2f", float64(c.Processed)/secs))
		r.stat(0, "Seconds / file:", fmt.Sprintf("%.2f", secs/float64(c.Processed)))
		r.stat(0, "Gigabytes / second:", fmt.Sprintf("%.2f", float64(c.TotalBytes)/1e9/secs))
	} else {
		r.stat(0, "Files / second:", "N/A")
		r.stat(0, "Seconds / file:", "N/A")
		r.stat(0, "Gigabytes / second:", "N/A")
	}
	r.line("")
}

func (c *Collection) renderFiles(r *reporter) {
	r.header("File Statistics:")
	r.counter(0, "File formats:", c.Containers, c.Processed)
	r.topBottom("Largest/Smallest files:", &c.BySize, c.TopCount, func(v float64) string {
		return display.FormatBytes(int64(v))
	})
	r.topBottom("Longest/Shortest playtimes:", &c.ByDuration, c.TopCount, display.FormatDuration)
	r.line("")
}

func (c *Collection) renderVideo(r *reporter) {
	r.header("Video Statistics:")
	r.counter(0, "Codecs:", c.Codecs, c.Processed)
	r.counter(0, "Bit depths:", c.BitDepths, c.Processed)
	r.counter(0, "Color spaces:", c.ColorSpaces, c.Processed)
	r.stat(0, "HDR files:", display.Percent(c.HDRCount, c.Processed))
	r.stat(0, "SDR files:", display.Percent(c.SDRCount, c.Processed))

	r.topBottom("Top/bottom bitrates:", &c.ByBitrate, c.TopCount, func(v float64) string {
		return fmt.Sprintf("%.2f Mbps", v)
	})
	if c.ByBitrate.Len() > 0 {
		r.stat(0, "Average bitrate:", fmt.Sprintf("%.2f Mbps", c.AverageBitrateMbps))
	}

	r.section(0, "Resolution categories:")
	for _, cat := range resolutionCategories {
		if n := c.ResolutionCategories.Get(cat.Name); n > 0 {
			r.stat(2, cat.Name, display.Percent(n, c.Processed))
		}
	}
	r.counter(0, "Specific resolutions:", c.Resolutions, c.Processed)
	r.line("")
}

func (c *Collection) renderAudio(r *reporter) {
	r.header("Audio Statistics:")
	r.section(0, "Soundtrack counts:")
	for i, n := range c.SoundtrackCounts {
		r.stat(2, bucketLabel(i, "soundtrack"), display.Percent(n, c.Processed))
	}
	r.section(0, "Audio language counts:")
	for i, n := range c.LanguageCounts {
		r.stat(2, bucketLabel(i, "audio language"), display.Percent(n, c.Processed))
	}

	r.stat(0, "Files with Atmos audio:", display.Percent(c.AtmosCount, c.Processed))
	r.stat(0, "Files with commentary track:", display.Percent(c.CommentaryCount, c.Processed))
	r.counter(0, "Audio languages:", c.AudioLanguages, c.Processed)
	r.counter(0, "Single-language files:", c.SingleLanguage, c.Processed)
	r.counter(0, "Channel formats:", c.ChannelFormats, c.Processed)
	r.counter(0, "Channel layouts:", c.ChannelLayouts, c.Processed)
	r.counter(0, "Audio formats:", c.AudioFormats, c.Processed)
	r.line("")
}

func (c *Collection) renderSubtitles(r *reporter) {
	r.header("Subtitle Statistics:")

	r.section(0, "Subtitles in file:")
	r.stat(2, "Total subtitles found:", display.FormatCount(int64(c.EmbeddedSubtitleCount)))
	r.counter(2, "Languages:", c.EmbeddedSubLanguages, c.Processed)
	r.counter(2, "Formats:", c.EmbeddedSubFormats, c.Processed)

	r.section(0, "Subtitles in folder:")
	r.counter(2, "Languages:", c.FolderSubLanguages, c.Processed)

	r.section(0, "Subtitles combined:")
	r.counter(2, "Languages:", c.CombinedSubLanguages, c.Processed)

	r.stat(0, "Files missing subtitles (file+folder):", display.Percent(c.MissingSubtitles, c.Processed))
	r.stat(0, "Files missing eng subtitles (file+folder):", display.Percent(c.MissingEnglishSubs, c.Processed))
	r.stat(0, "Files missing nor subtitles (file+folder):", display.Percent(c.MissingNorwegianSubs, c.Processed))
	r.stat(0, "Files with forced subtitles (file/folder):", display.Percent(c.ForcedSubtitles, c.Processed))
	r.line("")
}

func (c *Collection) renderIssues(r *reporter) {
	r.header("Issue Statistics:")
	r.stat(0, "Files without issues:", display.Percent(c.CleanFiles, c.Processed))
	r.counter(0, "Issues by flag:", c.IssueCounts, c.Processed)
	r.line("")
}

func (c *Collection) renderErrors(r *reporter) {
	if len(c.Errors) == 0 {
		return
	}
	r.line(r.paint(term.Red, "Errors encountered during statistics generation:"))
	for _, e := range c.Errors {
		r.line("  " + e)
	}
	r.line("")
}

// countPair renders a raw total with its named magnitude, "1,234,567 (1.23
// million)".
func countPair(v float64) string {
	return fmt.Sprintf("%s (%s)", display.FormatCount(int64(v)), display.FormatLargeNumber(v))
}

func bucketLabel(i int, noun string) string {
	switch {
	case i == 1:
		return fmt.Sprintf("Files with 1 %s:", noun)
	case i >= maxAudioBucket:
		return fmt.Sprintf("Files with %d or more %ss:", maxAudioBucket, noun)
	default:
		return fmt.Sprintf("Files with %d %ss:", i, noun)
	}
}

// reporter handles line layout: indenting, the aligned value column, and
// optional color.
type reporter struct {
	w       io.Writer
	colored bool
}

func (r *reporter) line(s string) {
	fmt.Fprintln(r.w, s)
}

func (r *reporter) header(text string) {
	r.line(r.paint(term.Cyan, text))
}

func (r *reporter) section(indent int, text string) {
	r.line(strings.Repeat(" ", indent) + r.paint(term.Yellow, text))
}

// stat prints one aligned "label  value" line.
func (r *reporter) stat(indent int, label, value string) {
	pad := strings.Repeat(" ", indent)
	if value == "" {
		r.line(pad + label)
		return
	}
	width := labelWidth - indent
	if width < len(label)+1 {
		width = len(label) + 1
	}
	fmt.Fprintf(r.w, "%s%-*s%s\n", pad, width, label, value)
}

// counter prints a section heading and every entry with its share.
func (r *reporter) counter(indent int, title string, c *Counter, total int) {
	r.section(indent, title)
	if c.Len() == 0 {
		r.stat(indent+2, "(none)", "")
		return
	}
	for _, e := range c.Entries() {
		r.stat(indent+2, e.Key, display.Percent(e.Count, total))
	}
}

// topBottom prints the k largest and k smallest entries of a ranking. The
// value leads each line so the figures line up in a column.
func (r *reporter) topBottom(title string, rank *Ranking, k int, format func(float64) string) {
	r.section(0, title)
	if rank.Len() == 0 {
		r.stat(2, "(no data)", "")
		return
	}

	var shown []RankEntry
	gap := -1
	if rank.Len() <= 2*k {
		shown = rank.Sorted()
	} else {
		shown = append(rank.Top(k), rank.Bottom(k)...)
		gap = k
	}

	width := 0
	for _, e := range shown {
		if n := len(format(e.Value)); n > width {
			width = n
		}
	}
	for i, e := range shown {
		if i == gap {
			r.stat(2, "...", "")
		}
		r.stat(2, fmt.Sprintf("%*s", width, format(e.Value)), e.Path)
	}
}

func (r *reporter) paint(color, s string) string {
	if !r.colored || color == "" {
		return s
	}
	return color + s + term.NC
}
