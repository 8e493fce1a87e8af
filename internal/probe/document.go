package probe

import "strings"

// ffprobe JSON wire types. The document is kept close to the wire: string
// fields stay strings, numeric fields use Num so string-typed numbers and
// missing values survive unmangled. Interpretation (frame rates, HDR, bit
// depth, stream folding) happens in the classify package.

// Document is the parsed output of one ffprobe invocation.
type Document struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`

	// Raw holds the unparsed JSON body for the optional raw-output column.
	Raw []byte `json:"-"`
}

// Format is the container-level section.
type Format struct {
	Filename       string            `json:"filename"`
	NbStreams      int               `json:"nb_streams"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       Num               `json:"duration"`
	Size           Num               `json:"size"`
	BitRate        Num               `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

// Stream is one entry of the streams array; codec_type selects which fields
// are meaningful.
type Stream struct {
	Index            int               `json:"index"`
	CodecName        string            `json:"codec_name"`
	CodecLongName    string            `json:"codec_long_name"`
	CodecType        string            `json:"codec_type"`
	Profile          string            `json:"profile"`
	Level            Num               `json:"level"`
	Width            Num               `json:"width"`
	Height           Num               `json:"height"`
	PixFmt           string            `json:"pix_fmt"`
	ColorSpace       string            `json:"color_space"`
	ColorPrimaries   string            `json:"color_primaries"`
	ColorTransfer    string            `json:"color_transfer"`
	ColorRange       string            `json:"color_range"`
	ChromaLocation   string            `json:"chroma_location"`
	FieldOrder       string            `json:"field_order"`
	Refs             Num               `json:"refs"`
	BitsPerRawSample Num               `json:"bits_per_raw_sample"`
	AvgFrameRate     string            `json:"avg_frame_rate"`
	RFrameRate       string            `json:"r_frame_rate"`
	Channels         Num               `json:"channels"`
	ChannelLayout    string            `json:"channel_layout"`
	SampleFmt        string            `json:"sample_fmt"`
	SampleRate       Num               `json:"sample_rate"`
	BitRate          Num               `json:"bit_rate"`
	DvProfile        Num               `json:"dv_profile"`
	Disposition      map[string]int    `json:"disposition"`
	Tags             map[string]string `json:"tags"`
	SideData         []SideData        `json:"side_data_list"`
}

// SideData is one side-data entry; only the Dolby Vision configuration
// record is interpreted today.
type SideData struct {
	Type      string `json:"side_data_type"`
	DvProfile Num    `json:"dv_profile"`
	DvLevel   Num    `json:"dv_level"`
}

// VideoStreams returns the streams with codec_type "video" in document order.
func (d *Document) VideoStreams() []Stream { return d.streamsOfType("video") }

// AudioStreams returns the streams with codec_type "audio" in document order.
func (d *Document) AudioStreams() []Stream { return d.streamsOfType("audio") }

// SubtitleStreams returns the streams with codec_type "subtitle" in document order.
func (d *Document) SubtitleStreams() []Stream { return d.streamsOfType("subtitle") }

func (d *Document) streamsOfType(t string) []Stream {
	var out []Stream
	for i := range d.Streams {
		if d.Streams[i].CodecType == t {
			out = append(out, d.Streams[i])
		}
	}
	return out
}

// Tag returns the stream tag for key, trying the exact key and then its
// upper- and lower-case forms. Mirrors ffprobe's inconsistent tag casing
// across muxers.
func (s *Stream) Tag(key string) string {
	if s.Tags == nil {
		return ""
	}
	if v, ok := s.Tags[key]; ok {
		return v
	}
	if v, ok := s.Tags[strings.ToUpper(key)]; ok {
		return v
	}
	if v, ok := s.Tags[strings.ToLower(key)]; ok {
		return v
	}
	return ""
}

// IsDefault reports whether the stream carries the default disposition.
func (s *Stream) IsDefault() bool { return s.Disposition["default"] == 1 }

// IsForced reports whether the stream carries the forced disposition.
func (s *Stream) IsForced() bool { return s.Disposition["forced"] == 1 }
