//go:build !linux && !darwin

package record

import (
	"os"
	"time"
)

// creationTime falls back to the modification time on platforms where the
// stat result carries no usable creation stamp.
func creationTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
