package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FileList is a parsed processing list. Cursor is the index of the next
// file to process; RunID ties resumed runs to their catalog rows and is
// empty for hand-written lists.
type FileList struct {
	Path   string
	RunID  string
	Cursor int
	Files  []string
}

// Multi-line comment blocks, stripped before line parsing.
var commentBlockRe = regexp.MustCompile(`(?s)""".*?"""`)

const (
	cursorPrefix = "# Cursor:"
	runPrefix    = "# Run:"
)

// ReadFileList parses a processing list: '#' lines are comments, a
// "# Cursor: N" line marks where to resume, '"""' blocks comment out whole
// sections, and every other non-blank line is a path.
func ReadFileList(path string) (*FileList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file list: %w", err)
	}
	content := commentBlockRe.ReplaceAllString(string(raw), "")

	list := &FileList{Path: path}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, cursorPrefix):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, cursorPrefix)))
			if err == nil && n >= 0 {
				list.Cursor = n
			}
		case strings.HasPrefix(line, runPrefix):
			id := strings.TrimSpace(strings.TrimPrefix(line, runPrefix))
			if _, err := uuid.Parse(id); err == nil {
				list.RunID = id
			}
		case line == "" || strings.HasPrefix(line, "#"):
			// comment
		default:
			list.Files = append(list.Files, line)
		}
	}
	return list, nil
}

// WriteFileList generates a processing list with a resume header. The run
// ID written here is adopted by whichever run processes the list, so
// interrupted and resumed passes share one identity in the catalog.
func WriteFileList(path string, files []string, resumeCmd, runID string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Resume command: %s\n", resumeCmd)
	fmt.Fprintf(&b, "%s %s\n", runPrefix, runID)
	fmt.Fprintf(&b, "%s 0\n", cursorPrefix)
	b.WriteString("# You can use '#' for single-line comments and '\"\"\"' for multi-line comments\n")
	b.WriteString("# Files commented out will be skipped during processing\n\n")
	for _, f := range files {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing file list: %w", err)
	}
	return nil
}

// UpdateCursor rewrites the "# Cursor:" line in place, inserting one near
// the top when the list has none. The list is a resume convenience, not a
// journal: a torn write at worst repeats one file.
func UpdateCursor(path string, cursor int) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file list: %w", err)
	}
	lines := strings.Split(string(raw), "\n")
	updated := fmt.Sprintf("%s %d", cursorPrefix, cursor)

	found := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), cursorPrefix) {
			lines[i] = updated
			found = true
			break
		}
	}
	if !found {
		// Slot it after the first line, where generated lists keep it.
		at := 1
		if len(lines) < at {
			at = len(lines)
		}
		lines = append(lines[:at], append([]string{updated}, lines[at:]...)...)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("writing file list: %w", err)
	}
	return nil
}
