package stats

import (
	"strings"
	"unicode"
)

// langAlias maps ISO 639-1 codes to the 639-2 forms muxers usually write,
// so "en" and "eng" tally as one language.
var langAlias = map[string]string{
	"en": "eng",
	"no": "nor",
	"da": "dan",
	"sv": "swe",
	"fi": "fin",
	"fr": "fre",
	"de": "ger",
	"es": "spa",
	"pt": "por",
	"nl": "dut",
	"pl": "pol",
	"cs": "cze",
	"el": "gre",
	"tr": "tur",
	"ko": "kor",
	"it": "ita",
	"ru": "rus",
	"ar": "ara",
	"ja": "jpn",
	"zh": "chi",
	"he": "heb",
	"hu": "hun",
	"ro": "rum",
	"sk": "slo",
	"sl": "slv",
	"uk": "ukr",
	"id": "ind",
	"th": "tha",
	"vi": "vie",
	"bg": "bul",
	"is": "ice",
	"hr": "hrv",
	"lt": "lit",
	"lv": "lav",
	"et": "est",
	"hi": "hin",
	"ca": "cat",
	"gl": "glg",
	"eu": "baq",
	"sr": "srp",
	"fa": "per",
	"mk": "mac",
	"te": "tel",
	"ta": "tam",
	"ml": "mal",
	"kn": "kan",
	"bn": "ben",
}

// CanonicalLanguage lowercases a tag and folds two-letter codes into their
// three-letter form. The display sentinel and unknown tags pass through.
func CanonicalLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if strings.EqualFold(tag, "n/a") {
		return "N/A"
	}
	tag = strings.ToLower(tag)
	if three, ok := langAlias[tag]; ok {
		return three
	}
	return tag
}

// hasLanguage reports whether any tag resolves to the given 639-2 code.
// Folder tags may be dotted ("en.forced"), so components match individually.
func hasLanguage(tags []string, code string) bool {
	for _, tag := range tags {
		parts := strings.FieldsFunc(tag, func(r rune) bool { return !unicode.IsLetter(r) })
		for _, part := range parts {
			if CanonicalLanguage(part) == code {
				return true
			}
		}
	}
	return false
}

// folderLanguages extracts the language of each sidecar subtitle descriptor
// ("en.forced" → "eng"). The language is the last 2- or 3-letter dotted
// component, matching the "Movie.en.srt" naming convention; descriptors
// without one carry no language and are dropped here.
func folderLanguages(descs []string) []string {
	var out []string
	for _, d := range descs {
		parts := strings.FieldsFunc(d, func(r rune) bool { return !unicode.IsLetter(r) })
		for i := len(parts) - 1; i >= 0; i-- {
			if n := len(parts[i]); n == 2 || n == 3 {
				out = append(out, CanonicalLanguage(parts[i]))
				break
			}
		}
	}
	return out
}
