//go:build linux

package record

import (
	"os"
	"syscall"
	"time"
)

// creationTime returns the inode change time, the closest thing Linux
// exposes to a creation stamp through plain stat.
func creationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Unix())
	}
	return info.ModTime()
}
