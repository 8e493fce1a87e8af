package classify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xoChrisCo/video-toolbox/internal/probe"
)

// VideoSummary describes the video side of a file. Codec, long name, profile
// and level come from the first video stream, with a "(+N)" suffix when more
// streams are present. The remaining fields are taken from the first stream
// only, which is the one players and transcoders select by default.
type VideoSummary struct {
	Codec         string
	CodecLongName string
	Profile       string
	Level         string

	Width  probe.Num
	Height probe.Num

	BitRate probe.Num

	ColorSpace     string
	ColorPrimaries string
	ColorTransfer  string
	ColorRange     string
	ChromaLocation string
	FieldOrder     string
	Refs           probe.Num

	PixFmt           string
	BitsPerRawSample probe.Num
	BitDepth         string

	// FrameRate is the normalized display form: fractional rates divided out
	// to three decimals, distinct per-stream values joined with commas. FPS
	// carries the numeric value of the first stream when one parsed cleanly.
	FrameRate string
	FPS       probe.Num

	HDR       bool
	DVProfile probe.Num

	// BPPPF is bits per pixel per frame, a rough quality-per-area measure.
	BPPPF probe.Num

	StreamCount int
}

// Interlaced reports whether the field order indicates interlaced content.
// Anything other than plain progressive (tt, bb, tb, bt) counts.
func (v VideoSummary) Interlaced() bool {
	switch v.FieldOrder {
	case "", NA, "progressive":
		return false
	}
	return true
}

func classifyVideo(doc *probe.Document) VideoSummary {
	streams := doc.VideoStreams()
	sum := VideoSummary{
		Codec:          NA,
		CodecLongName:  NA,
		Profile:        NA,
		Level:          NA,
		ColorSpace:     NA,
		ColorPrimaries: NA,
		ColorTransfer:  NA,
		ColorRange:     NA,
		ChromaLocation: NA,
		FieldOrder:     NA,
		PixFmt:         NA,
		BitDepth:       NA,
		FrameRate:      NA,
		StreamCount:    len(streams),
	}
	if len(streams) == 0 {
		return sum
	}

	first := streams[0]
	extra := len(streams) - 1

	sum.Codec = foldExtra(orNA(first.CodecName), extra)
	sum.CodecLongName = foldExtra(orNA(first.CodecLongName), extra)
	sum.Profile = foldExtra(orNA(first.Profile), extra)
	sum.Level = foldExtra(first.Level.Display(), extra)

	sum.Width = first.Width
	sum.Height = first.Height
	sum.BitRate = videoBitRate(first)

	sum.ColorSpace = orNA(first.ColorSpace)
	sum.ColorPrimaries = orNA(first.ColorPrimaries)
	sum.ColorTransfer = orNA(first.ColorTransfer)
	sum.ColorRange = orNA(first.ColorRange)
	sum.ChromaLocation = orNA(first.ChromaLocation)
	sum.FieldOrder = orNA(first.FieldOrder)
	sum.Refs = first.Refs

	sum.PixFmt = orNA(first.PixFmt)
	sum.BitsPerRawSample = first.BitsPerRawSample
	sum.BitDepth = bitDepth(first)

	sum.FrameRate, sum.FPS = frameRate(streams)
	sum.HDR = isHDR(first)
	sum.DVProfile = dvProfile(first)
	sum.BPPPF = bitsPerPixelPerFrame(sum)

	return sum
}

// foldExtra appends a "(+N)" marker when a file carries more than one video
// stream, so multi-stream files stay visible in single-valued columns.
func foldExtra(val string, extra int) string {
	if extra <= 0 {
		return val
	}
	return fmt.Sprintf("%s (+%d)", val, extra)
}

// videoBitRate prefers the stream's own bit_rate and falls back to the BPS
// tag that matroska muxers write when the stream header has no rate.
func videoBitRate(s probe.Stream) probe.Num {
	if s.BitRate.Present() {
		return s.BitRate
	}
	if bps := s.Tag("BPS"); bps != "" {
		return probe.NumFromString(bps)
	}
	return s.BitRate
}

// eightBitFormats are pixel formats that imply 8-bit content even when
// ffprobe omits bits_per_raw_sample.
var eightBitFormats = map[string]bool{
	"yuv420p":  true,
	"yuvj420p": true,
	"yuv422p":  true,
	"yuvj422p": true,
	"yuv444p":  true,
	"yuvj444p": true,
	"nv12":     true,
}

// bitDepth derives the effective bit depth: a pixel format naming 10 or 12
// bits wins, otherwise bits_per_raw_sample, otherwise the 8-bit format table.
func bitDepth(s probe.Stream) string {
	if strings.Contains(s.PixFmt, "10") {
		return "10"
	}
	if strings.Contains(s.PixFmt, "12") {
		return "12"
	}
	if s.BitsPerRawSample.Present() {
		return s.BitsPerRawSample.Display()
	}
	if eightBitFormats[s.PixFmt] {
		return "8"
	}
	return NA
}

// normalizeRate turns one avg_frame_rate token into its display form.
// Fractions are divided out to three decimals; a zero denominator or an
// empty token is unusable; a fraction that does not parse is kept verbatim
// so the malformed value stays visible. Plain decimals pass through.
func normalizeRate(raw string) string {
	if raw == "" || raw == "0/0" {
		return NA
	}
	if strings.Contains(raw, "/") {
		parts := strings.SplitN(raw, "/", 2)
		num, errN := strconv.ParseFloat(parts[0], 64)
		den, errD := strconv.ParseFloat(parts[1], 64)
		if errN != nil || errD != nil {
			return raw
		}
		if den == 0 {
			return NA
		}
		return fmt.Sprintf("%.3f", num/den)
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return raw
	}
	return NA
}

// frameRate normalizes every video stream's rate and joins the distinct
// values. Files whose streams disagree end up with a comma in the string,
// which the issue rules treat as a variable-rate signal.
func frameRate(streams []probe.Stream) (string, probe.Num) {
	var vals []string
	for _, s := range streams {
		v := normalizeRate(s.AvgFrameRate)
		if v == NA {
			continue
		}
		vals = append(vals, v)
	}
	vals = dedup(vals)
	if len(vals) == 0 {
		return NA, probe.Num{}
	}
	display := strings.Join(vals, ",")
	if f, err := strconv.ParseFloat(vals[0], 64); err == nil {
		return display, probe.NumOf(f)
	}
	return display, probe.Num{}
}

// isHDR reports HDR based on the transfer characteristics: PQ (smpte2084)
// or HLG. Primaries alone do not qualify, wide-gamut SDR exists.
func isHDR(s probe.Stream) bool {
	t := strings.ToLower(s.ColorTransfer)
	return strings.Contains(t, "smpte2084") || strings.Contains(t, "hlg")
}

// dvProfile finds the Dolby Vision profile, checking the places ffprobe
// versions have put it: the DOVI side data block, the DOVI_PROFILE tag,
// and a top-level dv_profile field.
func dvProfile(s probe.Stream) probe.Num {
	for _, sd := range s.SideData {
		if containsFold(sd.Type, "DOVI configuration record") && sd.DvProfile.Present() {
			return sd.DvProfile
		}
	}
	if tag := s.Tag("DOVI_PROFILE"); tag != "" {
		return probe.NumFromString(tag)
	}
	if s.DvProfile.Present() {
		return s.DvProfile
	}
	return probe.Num{}
}

// bitsPerPixelPerFrame computes bitrate / (width * height * fps). Any
// missing input leaves the result absent.
func bitsPerPixelPerFrame(v VideoSummary) probe.Num {
	rate, okR := v.BitRate.Float64()
	w, okW := v.Width.Float64()
	h, okH := v.Height.Float64()
	fps, okF := v.FPS.Float64()
	if !okR || !okW || !okH || !okF || w == 0 || h == 0 || fps == 0 {
		return probe.Num{}
	}
	return probe.NumOf(rate / (w * h * fps))
}
