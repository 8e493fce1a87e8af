package ffmpeg

import (
	"regexp"
	"strconv"
)

// ffmpeg repeats its stats line throughout a run; only the final value
// reflects the whole sample, so we always take the last match.
var reSpeed = regexp.MustCompile(`speed=\s*([0-9]+(?:\.[0-9]+)?)x`)

// LastSpeed extracts the final "speed=<float>x" token from encoder progress
// output. ok is false when no token is present, which callers treat
// differently depending on the exit code.
func LastSpeed(output string) (float64, bool) {
	matches := reSpeed.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
