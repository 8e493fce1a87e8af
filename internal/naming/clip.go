package naming

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Timecode renders an offset in seconds as a filename-safe tag,
// HH_MM_SS_mmm. Colons are off the table on most filesystems.
func Timecode(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	ms := int(math.Round(seconds * 1000))
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d_%02d_%02d_%03d", h, m, s, ms%1000)
}

// SampleDir is where retained clips live under the run output directory.
func SampleDir(outputDir string) string {
	return filepath.Join(outputDir, "samples")
}

// ClipNamer hands out paths for retained sample clips. Distinct source
// files that share a base name (same movie in two folders) would produce
// the same clip name, so paths go through the collision resolver.
type ClipNamer struct {
	dir      string
	resolver *CollisionResolver
}

// NewClipNamer creates a namer rooted at dir.
func NewClipNamer(dir string) *ClipNamer {
	return &ClipNamer{dir: dir, resolver: NewCollisionResolver()}
}

// Path returns the clip path for one sampled slice, creating the clip
// directory on first use. The clip keeps the source container extension so
// a stream copy stays valid.
func (c *ClipNamer) Path(mediaPath string, index int, start float64) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(mediaPath)
	if ext == "" {
		ext = ".mkv"
	}
	stem := strings.TrimSuffix(filepath.Base(mediaPath), ext)
	name := fmt.Sprintf("%s - s%02d - %s%s", stem, index+1, Timecode(start), ext)
	return c.resolver.Resolve(mediaPath, filepath.Join(c.dir, name)), nil
}
