package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/xoChrisCo/video-toolbox/internal/catalog"
	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/logging"
	"github.com/xoChrisCo/video-toolbox/internal/record"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not a real video"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func quietLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Quiet = true
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestDiscoverFiltersAndPrunes(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "alpha.mkv"))
	touch(t, filepath.Join(root, "bravo.MP4"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "series", "charlie.avi"))
	touch(t, filepath.Join(root, "Extras", "skipped.mkv"))
	touch(t, filepath.Join(root, "series", "extras", "also-skipped.mkv"))

	cfg := config.DefaultConfig()
	files, err := Discover(root, &cfg)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join(root, "alpha.mkv"),
		filepath.Join(root, "bravo.MP4"),
		filepath.Join(root, "series", "charlie.avi"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files %v, want %d", len(files), files, len(want))
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := Discover(filepath.Join(t.TempDir(), "nope"), &cfg); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestFolderSubtitles(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "Heat (1995).mkv")
	touch(t, video)
	touch(t, filepath.Join(dir, "Heat (1995).en.srt"))
	touch(t, filepath.Join(dir, "Heat (1995).en.forced.srt"))
	touch(t, filepath.Join(dir, "Heat (1995).NOR.ass"))
	touch(t, filepath.Join(dir, "Heat (1995).srt"))       // no language suffix
	touch(t, filepath.Join(dir, "Other film.en.srt"))     // different stem
	touch(t, filepath.Join(dir, "Heat (1995).thumb.jpg")) // not a subtitle

	got := FolderSubtitles(video)
	want := []string{"en", "en.forced", "nor"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("descriptor[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.txt")
	files := []string{"/media/a.mkv", "/media/b.mkv", "/media/c.mkv"}
	runID := uuid.New().String()

	if err := WriteFileList(path, files, "video-toolbox /media", runID); err != nil {
		t.Fatalf("WriteFileList: %v", err)
	}
	list, err := ReadFileList(path)
	if err != nil {
		t.Fatalf("ReadFileList: %v", err)
	}

	if list.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", list.Cursor)
	}
	if list.RunID != runID {
		t.Errorf("run ID = %q, want %q", list.RunID, runID)
	}
	if len(list.Files) != 3 || list.Files[0] != "/media/a.mkv" || list.Files[2] != "/media/c.mkv" {
		t.Errorf("files = %v", list.Files)
	}
}

func TestReadFileListComments(t *testing.T) {
	content := `# Resume command: video-toolbox /media --file-list list.txt
# Cursor: 2
# a single-line comment

/media/a.mkv
"""
/media/commented-out.mkv
/media/also-commented.mkv
"""
/media/b.mkv
`
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := ReadFileList(path)
	if err != nil {
		t.Fatalf("ReadFileList: %v", err)
	}
	if list.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", list.Cursor)
	}
	if list.RunID != "" {
		t.Errorf("run ID = %q, want empty for hand-written list", list.RunID)
	}
	if len(list.Files) != 2 || list.Files[0] != "/media/a.mkv" || list.Files[1] != "/media/b.mkv" {
		t.Errorf("files = %v", list.Files)
	}
}

func TestUpdateCursorRewritesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.txt")
	if err := WriteFileList(path, []string{"/media/a.mkv", "/media/b.mkv"}, "cmd", uuid.New().String()); err != nil {
		t.Fatal(err)
	}

	if err := UpdateCursor(path, 7); err != nil {
		t.Fatalf("UpdateCursor: %v", err)
	}
	list, err := ReadFileList(path)
	if err != nil {
		t.Fatal(err)
	}
	if list.Cursor != 7 {
		t.Errorf("cursor = %d, want 7", list.Cursor)
	}
	if len(list.Files) != 2 {
		t.Errorf("update lost file lines: %v", list.Files)
	}

	// The resume header must survive the rewrite.
	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), "# Resume command:") {
		t.Errorf("first line clobbered: %q", strings.SplitN(string(raw), "\n", 2)[0])
	}
}

func TestUpdateCursorInsertsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.txt")
	if err := os.WriteFile(path, []byte("/media/a.mkv\n/media/b.mkv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := UpdateCursor(path, 1); err != nil {
		t.Fatalf("UpdateCursor: %v", err)
	}
	list, err := ReadFileList(path)
	if err != nil {
		t.Fatal(err)
	}
	if list.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", list.Cursor)
	}
	if len(list.Files) != 2 {
		t.Errorf("insert lost file lines: %v", list.Files)
	}
}

// runConfig builds a config for pipeline runs over a temp tree. The inputs
// are not real media, so every file fails its probe; the run must still
// produce a complete fixed-width report.
func runConfig(t *testing.T, inputDir string) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Quiet = true
	cfg.ShowProgress = false
	cfg.ColorMode = config.ColorNever
	return cfg
}

func TestRunRecordsProbeFailures(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "broken.mkv"))
	cfg := runConfig(t, root)
	log := quietLogger(t)

	rs, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rs.Total != 1 || rs.Failed != 1 || rs.Processed != 0 {
		t.Errorf("stats = %+v, want 1 total / 1 failed", rs)
	}

	f, err := os.Open(rs.ReportPath)
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("report unreadable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("report rows = %d, want header + 1", len(rows))
	}
	if got, want := len(rows[1]), len(rows[0]); got != want {
		t.Errorf("record width %d != header width %d", got, want)
	}
	if rows[1][3] != "broken.mkv" {
		t.Errorf("Filename column = %q", rows[1][3])
	}
	if !contains(rows[1], record.ErrorValue) {
		t.Error("failed record carries no error sentinel")
	}

	if rs.StatsPath == "" {
		t.Fatal("statistics file not written")
	}
	body, err := os.ReadFile(rs.StatsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Files failed:") {
		t.Error("statistics report missing failure section")
	}
}

func TestRunResumesFromListCursor(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "files.txt")
	files := []string{"/missing/a.mkv", "/missing/b.mkv", "/missing/c.mkv"}
	if err := WriteFileList(listPath, files, "cmd", uuid.New().String()); err != nil {
		t.Fatal(err)
	}
	if err := UpdateCursor(listPath, 1); err != nil {
		t.Fatal(err)
	}

	cfg := runConfig(t, "")
	cfg.FileList = listPath
	log := quietLogger(t)

	rs, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Files are unreachable, so the two past the cursor fail; the first is
	// skipped entirely.
	if rs.Total != 3 || rs.Failed != 2 {
		t.Errorf("stats = %+v, want 3 total / 2 failed", rs)
	}

	list, err := ReadFileList(listPath)
	if err != nil {
		t.Fatal(err)
	}
	if list.Cursor != 3 {
		t.Errorf("cursor after run = %d, want 3", list.Cursor)
	}
}

func TestRunAdoptsListRunID(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "files.txt")
	files := []string{"/missing/a.mkv", "/missing/b.mkv"}
	if err := WriteFileList(listPath, files, "cmd", uuid.New().String()); err != nil {
		t.Fatal(err)
	}
	list, err := ReadFileList(listPath)
	if err != nil {
		t.Fatal(err)
	}

	cfg := runConfig(t, "")
	cfg.FileList = listPath
	cfg.DBPath = filepath.Join(dir, "inventory.db")
	log := quietLogger(t)

	if _, err := Run(context.Background(), &cfg, log); err != nil {
		t.Fatalf("Run: %v", err)
	}

	cat, err := catalog.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	defer cat.Close()
	ctx := context.Background()
	ok, err := cat.RunExists(ctx, list.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("run not recorded under the list's run ID")
	}
	seen, err := cat.SeenPaths(ctx, list.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || !seen["/missing/a.mkv"] {
		t.Errorf("recorded paths = %v", seen)
	}
}

func TestHealthCheckSkipsUndeterminableFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "broken.mkv"))
	cfg := runConfig(t, root)
	cfg.HealthCheck = true
	cfg.SampleCount = 1
	log := quietLogger(t)

	rs, err := HealthCheck(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	// Not a real video: its duration cannot be determined, with or without
	// ffprobe installed, so the file is skipped rather than failed.
	if rs.Total != 1 || rs.Skipped != 1 || rs.Failed != 0 {
		t.Errorf("stats = %+v, want 1 total / 1 skipped", rs)
	}

	f, err := os.Open(rs.ReportPath)
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
	if rows[0][0] != "Filename" || rows[0][6] != "Kind" {
		t.Errorf("header = %v", rows[0])
	}
}

func contains(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
