package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xoChrisCo/video-toolbox/internal/config"
)

// Sidecar subtitle extensions recognized next to a video file.
var subtitleExtensions = map[string]bool{
	".srt": true,
	".sub": true,
	".idx": true,
	".ass": true,
	".ssa": true,
}

// Discover walks root, collects files matching the configured extensions,
// prunes directories named "extras" (case-insensitive), and returns the
// paths sorted lexicographically for deterministic processing order.
func Discover(root string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.EqualFold(d.Name(), "extras") {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.HasExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FolderSubtitles scans a video file's directory for sidecar subtitles whose
// name starts with the video's stem and returns their descriptor suffixes,
// lowercased: "Movie.en.forced.srt" next to "Movie.mkv" yields "en.forced".
// Sidecars with no suffix at all ("Movie.srt") carry no language and yield
// nothing. Unreadable directories yield nothing; the embedded subtitle
// columns are unaffected.
func FolderSubtitles(videoPath string) []string {
	dir := filepath.Dir(videoPath)
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var descs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !subtitleExtensions[ext] {
			continue
		}
		if !strings.HasPrefix(name, stem) {
			continue
		}
		suffix := strings.TrimSuffix(name[len(stem):], filepath.Ext(name))
		suffix = strings.Trim(suffix, ".")
		if suffix == "" {
			continue
		}
		descs = append(descs, strings.ToLower(suffix))
	}
	sort.Strings(descs)
	return descs
}
