package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// RunStamp formats the moment a run started for embedding in file names.
func RunStamp(t time.Time) string {
	return t.Format("20060102-150405")
}

// SanitizeName keeps only characters that are safe in a file name across
// filesystems: letters, digits, space, underscore and dash. Trailing spaces
// are dropped so Windows shares don't choke on them.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// sourceLabel turns the scanned root into the name component shared by all
// of a run's files.
func sourceLabel(root string) string {
	label := SanitizeName(filepath.Base(filepath.Clean(root)))
	if label == "" {
		label = "run"
	}
	return label
}

// OutputFile names the inventory CSV for one run.
func OutputFile(stamp, root string) string {
	return fmt.Sprintf("%s - %s.csv", stamp, sourceLabel(root))
}

// StatsFile names the statistics report that accompanies the CSV.
func StatsFile(stamp, root string) string {
	return fmt.Sprintf("%s - %s - statistics.txt", stamp, sourceLabel(root))
}

// FileListName names a generated processing list.
func FileListName(stamp, root string) string {
	return fmt.Sprintf("%s - %s - files.txt", stamp, sourceLabel(root))
}

// HealthCheckFile names the decode-integrity report. The sample settings are
// part of the name so reports from different configurations sort apart.
// seconds == 0 means each sample decoded the full file.
func HealthCheckFile(stamp string, samples, seconds int) string {
	duration := "full"
	if seconds > 0 {
		duration = fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("health_check_%s_samples%d_duration%s.csv", stamp, samples, duration)
}
