package probe

import (
	"strconv"
	"strings"
)

// Num is a numeric metadata field as ffprobe reports it: sometimes a JSON
// number, sometimes a quoted string, often missing entirely. The zero value
// is an absent field. A present field that cannot be coerced to a number is
// kept distinct from an absent one, so callers can tell "unknown metadata"
// apart from "no such field".
type Num struct {
	raw     string
	val     float64
	parsed  bool
	present bool
}

// NumOf returns a present, parsed Num. Used by tests and derived values.
func NumOf(v float64) Num {
	return Num{raw: strconv.FormatFloat(v, 'f', -1, 64), val: v, parsed: true, present: true}
}

// NumFromString coerces a raw string field into a Num. Empty input stays
// absent; "N/A" (ffprobe's own sentinel) is treated as absent too.
func NumFromString(s string) Num {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return Num{}
	}
	n := Num{raw: s, present: true}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		n.val = v
		n.parsed = true
	}
	return n
}

// UnmarshalJSON accepts a JSON number, a quoted numeric string, or null.
// It never returns an error: malformed values become present-but-unparseable,
// which downstream reports as an unknown-metadata condition instead of
// failing the whole document.
func (n *Num) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = Num{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*n = NumFromString(s)
	return nil
}

// Float64 returns the parsed value and whether one is available.
func (n Num) Float64() (float64, bool) { return n.val, n.parsed }

// Int returns the parsed value truncated to int and whether one is available.
func (n Num) Int() (int, bool) {
	if !n.parsed {
		return 0, false
	}
	return int(n.val), true
}

// Int64 returns the parsed value truncated to int64 and whether one is available.
func (n Num) Int64() (int64, bool) {
	if !n.parsed {
		return 0, false
	}
	return int64(n.val), true
}

// Present reports whether the field appeared in the document at all.
func (n Num) Present() bool { return n.present }

// Unparseable reports whether the field appeared but could not be coerced
// to a number. This is the condition that triggers the unknown-metadata
// issue rather than the field's specific rule.
func (n Num) Unparseable() bool { return n.present && !n.parsed }

// Raw returns the original token (quotes stripped), or "" when absent.
func (n Num) Raw() string { return n.raw }

// Display returns the raw token for present fields and "N/A" otherwise.
// This is the only place the string sentinel re-enters the output path.
func (n Num) Display() string {
	if !n.present {
		return "N/A"
	}
	return n.raw
}
