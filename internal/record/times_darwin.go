//go:build darwin

package record

import (
	"os"
	"syscall"
	"time"
)

// creationTime returns the file's birth time, which APFS and HFS+ track.
func creationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Unix())
	}
	return info.ModTime()
}
