package ffmpeg

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying decoder stderr into stable issue
// kinds. A full decode with "-v error" is silent on a healthy file, so any
// output at all means trouble; these just name the trouble for the report.
var (
	reCorruptFrame = regexp.MustCompile(
		`(?i)corrupt decoded frame|corrupt input packet|concealing \d+ DC`)

	reDecodeError = regexp.MustCompile(
		`(?i)error while decoding|decode_slice_header error|` +
			`Invalid NAL unit|non-existing PPS|no frame!`)

	reMissingReference = regexp.MustCompile(
		`(?i)reference picture missing|Missing reference picture|` +
			`co located POCs unavailable`)

	reInvalidData = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`moov atom not found|Header missing|Format .* detected only with low score`)

	reReadError = regexp.MustCompile(
		`(?i)Input/output error|Error while decoding stream.*Input/output`)
)

// decodeKinds pairs each pattern with its report label, in severity order.
var decodeKinds = []struct {
	name string
	re   *regexp.Regexp
}{
	{"invalid data", reInvalidData},
	{"read error", reReadError},
	{"corrupt frame", reCorruptFrame},
	{"missing reference", reMissingReference},
	{"decode error", reDecodeError},
}

// ClassifyDecodeErrors names every known error kind present in decoder
// stderr. Unrecognized output yields "other" so a dirty run is never
// reported as clean.
func ClassifyDecodeErrors(stderr string) []string {
	if strings.TrimSpace(stderr) == "" {
		return nil
	}
	var kinds []string
	for _, k := range decodeKinds {
		if k.re.MatchString(stderr) {
			kinds = append(kinds, k.name)
		}
	}
	if len(kinds) == 0 {
		kinds = append(kinds, "other")
	}
	return kinds
}
