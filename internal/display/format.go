package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatDuration renders seconds as a spoken duration, "2 hours, 14 minutes,
// and 3.50 seconds".
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "unknown duration"
	}
	hours := int(seconds / 3600)
	rem := seconds - float64(hours)*3600
	minutes := int(rem / 60)
	secs := rem - float64(minutes)*60
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hours, %d minutes, and %.2f seconds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%d minutes and %.2f seconds", minutes, secs)
	default:
		return fmt.Sprintf("%.2f seconds", secs)
	}
}

// FormatCount adds thousands separators: 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatLargeNumber names the magnitude: 1234567 -> "1.23 million". Values
// below a thousand render as plain integers.
func FormatLargeNumber(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e15:
		return fmt.Sprintf("%.2f quadrillion", v/1e15)
	case abs >= 1e12:
		return fmt.Sprintf("%.2f trillion", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2f billion", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2f million", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2f thousand", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// Percent renders a count with its share of total: "42 (12.34%)". A zero
// total drops the percentage.
func Percent(n, total int) string {
	if total <= 0 {
		return FormatCount(int64(n))
	}
	return fmt.Sprintf("%s (%.2f%%)", FormatCount(int64(n)), float64(n)/float64(total)*100)
}
