package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/issues"
)

// baseColumns is the metadata column order shared by every run. Issue flag
// columns, sample columns and the raw probe column follow it.
var baseColumns = []string{
	"File", "Extension", "File Path", "Filename", "File Size",

	"Container Format", "Container Long Name", "Duration", "Overall Bitrate",

	"Codec", "Codec Long Name", "Profile", "Level", "Video Bitrate",
	"Width", "Height",
	"Color Space", "Color Primaries", "Color Transfer", "Color Range",
	"Chroma Location", "Field Order", "Refs", "Bits per Raw Sample",
	"Pixel Format", "Bit Depth", "HDR", "Dolby Vision Profile",
	"Frame Rate", "BPPPF", "Video Stream Count",

	"Audio Codecs", "Audio Codec Long Names", "Audio Channels",
	"Audio Channel Layouts", "Audio Sample Rates", "Audio Bitrates",
	"Audio Bit Depths", "Audio Languages", "Audio Languages Dedup",
	"Default Audio Language", "Atmos", "Commentary", "Audio Stream Count",

	"Subtitle Languages", "Subtitle Formats", "Forced Subtitle Count",
	"Folder Subtitle Languages", "Subtitle Stream Count",

	"Creation Date", "Modification Date",
}

// Layout fixes the column set for one run. The sample count decides how
// many sample column groups appear; RawProbe appends the probe document as
// the final column.
type Layout struct {
	SampleCount int
	RawProbe    bool
}

// Width returns the number of columns every row of the run carries.
func (l Layout) Width() int {
	w := len(baseColumns) + len(issues.FlagNames()) + 2 + 4*l.SampleCount
	if l.RawProbe {
		w++
	}
	return w
}

// Header returns the column names in output order.
func (l Layout) Header() []string {
	cols := make([]string, 0, l.Width())
	cols = append(cols, baseColumns...)
	cols = append(cols, issues.FlagNames()...)
	cols = append(cols, "Issues Detected", "Issue Description")
	for i := 1; i <= l.SampleCount; i++ {
		cols = append(cols,
			fmt.Sprintf("Sample %d Start", i),
			fmt.Sprintf("Sample %d Speed", i),
			fmt.Sprintf("Sample %d Speed Ratio", i),
			fmt.Sprintf("Sample %d Speed Group", i),
		)
	}
	if l.RawProbe {
		cols = append(cols, "Raw ffprobe output")
	}
	return cols
}

// Fields renders one record in header order. A failed record keeps its path
// columns and renders the error sentinel in every other position, so the
// row width never changes.
func (l Layout) Fields(r *FileRecord) []string {
	out := make([]string, 0, l.Width())
	out = append(out, r.Path, r.Ext, r.Dir, r.Name)
	if r.Failed {
		for len(out) < l.Width() {
			out = append(out, ErrorValue)
		}
		return out
	}

	f := r.Media.Format
	v := r.Media.Video
	a := r.Media.Audio
	s := r.Media.Subtitle
	rep := r.Issues
	if rep == nil {
		rep = &issues.Report{}
	}

	out = append(out,
		strconv.FormatInt(r.Size, 10),

		f.Container, f.ContainerLong, f.Duration.Display(), f.BitRate.Display(),

		v.Codec, v.CodecLongName, v.Profile, v.Level, v.BitRate.Display(),
		v.Width.Display(), v.Height.Display(),
		v.ColorSpace, v.ColorPrimaries, v.ColorTransfer, v.ColorRange,
		v.ChromaLocation, v.FieldOrder, v.Refs.Display(), v.BitsPerRawSample.Display(),
		v.PixFmt, v.BitDepth, yesNo(v.HDR), v.DVProfile.Display(),
		v.FrameRate, bpppf(v), strconv.Itoa(v.StreamCount),

		a.Codecs(), a.CodecLongNames(), a.Channels(),
		a.ChannelLayouts(), a.SampleRates(), a.BitRates(),
		a.BitDepths(), joinList(a.Languages()), joinList(a.LanguagesDedup()),
		a.DefaultLanguage(), yesNo(a.HasAtmos()), yesNo(a.HasCommentary()), strconv.Itoa(a.StreamCount),

		joinList(s.Languages()), s.Codecs(), strconv.Itoa(s.ForcedCount()),
		joinList(r.FolderSubs), strconv.Itoa(s.StreamCount),

		formatTime(r.Created), formatTime(r.Modified),
	)

	for _, fl := range rep.Flags() {
		out = append(out, yesNo(fl.Set))
	}
	out = append(out, yesNo(rep.Any()), rep.Description())

	for i := 0; i < l.SampleCount; i++ {
		if i < len(r.Samples) {
			smp := r.Samples[i]
			out = append(out,
				strconv.FormatFloat(smp.Start, 'f', 2, 64),
				smp.SpeedLabel(), smp.RatioLabel(), string(smp.Tier),
			)
			continue
		}
		out = append(out, classify.NA, classify.NA, classify.NA, classify.NA)
	}

	if l.RawProbe {
		out = append(out, r.RawJSON)
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// joinList renders a value list the same way the stream summaries do: comma
// joined, with the display sentinel for an empty list.
func joinList(vals []string) string {
	if len(vals) == 0 {
		return classify.NA
	}
	return strings.Join(vals, ", ")
}

// bpppf renders bits per pixel per frame to four decimals, enough to
// separate light web encodes from heavy remuxes.
func bpppf(v classify.VideoSummary) string {
	if f, ok := v.BPPPF.Float64(); ok {
		return strconv.FormatFloat(f, 'f', 4, 64)
	}
	return classify.NA
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return classify.NA
	}
	return t.Format(timeLayout)
}
