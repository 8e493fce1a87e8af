package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xoChrisCo/video-toolbox/internal/catalog"
	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/issues"
	"github.com/xoChrisCo/video-toolbox/internal/logging"
	"github.com/xoChrisCo/video-toolbox/internal/naming"
	"github.com/xoChrisCo/video-toolbox/internal/probe"
	"github.com/xoChrisCo/video-toolbox/internal/record"
	"github.com/xoChrisCo/video-toolbox/internal/sample"
	"github.com/xoChrisCo/video-toolbox/internal/stats"
	"github.com/xoChrisCo/video-toolbox/internal/term"
)

// probeTimeout bounds a single ffprobe call. Network shares with a dead
// mount otherwise hang the whole batch on one file.
const probeTimeout = 60 * time.Second

// Run executes the inventory pipeline: resolve the file set, probe and
// classify each file, write the CSV (and catalog) records, and render the
// statistics report. Cancellation stops between files; everything already
// written stays written.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	started := time.Now()
	stamp := naming.RunStamp(started)
	var rs RunStats

	// --- 1. Source files ---
	files, list, root, err := sourceFiles(cfg)
	if err != nil {
		return rs, err
	}
	rs.Total = len(files)

	runID := ""
	if list != nil {
		runID = list.RunID
	}
	if runID == "" {
		runID = uuid.New().String()
	}

	// --- 2. Sinks ---
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return rs, fmt.Errorf("creating output directory: %w", err)
	}
	layout := record.Layout{SampleCount: cfg.SampleCount, RawProbe: cfg.RawProbe}
	writer, err := record.Create(filepath.Join(cfg.OutputDir, naming.OutputFile(stamp, root)), cfg.Delimiter, layout)
	if err != nil {
		return rs, err
	}
	defer writer.Close()
	rs.ReportPath = writer.Path()

	cat, seen, err := openCatalog(ctx, cfg, log, runID, root)
	if err != nil {
		return rs, err
	}
	if cat != nil {
		defer cat.Close()
	}

	// --- 3. Per-file tooling ---
	prober := probe.New()
	prober.Verbose = cfg.Verbose
	prober.Timeout = probeTimeout
	thresholds := issues.FromConfig(cfg)
	var sampler *sample.Sampler
	if cfg.SampleCount > 0 {
		sampler = sample.New(cfg, log)
	}
	agg := stats.NewAggregator(root, cfg.TopBottomCount)

	logRunHeader(cfg, log, &rs, runID, cat)

	// --- 4. The loop ---
	start := 0
	if list != nil && list.Cursor > 0 {
		start = list.Cursor
		if start > len(files) {
			start = len(files)
		}
		log.Info("Resuming at file %d of %d", start+1, rs.Total)
	}

	for i := start; i < len(files); i++ {
		if ctx.Err() != nil {
			log.Warn("Interrupted, stopping before file %d/%d", i+1, rs.Total)
			break
		}
		path := files[i]
		name := filepath.Base(path)

		if seen[path] {
			rs.Skipped++
			log.Debug(cfg.Verbose, "[%d/%d] already recorded, skipping: %s", i+1, rs.Total, name)
			continue
		}
		if cfg.ShowProgress {
			log.Progress("[%d/%d] %s", i+1, rs.Total, name)
		}

		rec := processOne(ctx, cfg, prober, thresholds, sampler, path)

		if err := writer.Write(rec); err != nil {
			log.EndProgress()
			return rs, fmt.Errorf("writing record for %s: %w", path, err)
		}
		if cat != nil {
			if err := cat.InsertRecord(ctx, runID, rec); err != nil {
				log.Error("Catalog insert failed for %s: %v", path, err)
			}
		}
		if list != nil {
			if err := UpdateCursor(list.Path, i+1); err != nil {
				log.Debug(cfg.Verbose, "Cursor update failed: %v", err)
			}
		}

		agg.Add(rec)
		logRecord(cfg, log, rec, i+1, rs.Total)
		if rec.Failed {
			rs.Failed++
		} else {
			rs.Processed++
		}
	}
	log.EndProgress()

	// --- 5. Statistics and wrap-up ---
	col := agg.Finish()
	col.RunID = runID
	rs.Elapsed = col.Elapsed

	if !cfg.Quiet {
		fmt.Println()
		col.Render(os.Stdout, term.Enabled())
	}
	statsPath := filepath.Join(cfg.OutputDir, naming.StatsFile(stamp, root))
	if f, err := os.Create(statsPath); err != nil {
		log.Error("Cannot write statistics file: %v", err)
	} else {
		col.Render(f, false)
		f.Close()
		rs.StatsPath = statsPath
	}

	if cat != nil {
		if err := cat.FinishRun(ctx, runID, rs.Processed, rs.Failed, rs.ReportPath); err != nil {
			log.Error("Catalog finish failed: %v", err)
		}
	}

	logSummary(log, &rs)
	return rs, nil
}

// sourceFiles resolves the file set from either a processing list or a
// directory walk. root is the label the report files are named after.
func sourceFiles(cfg *config.Config) ([]string, *FileList, string, error) {
	if cfg.FileList != "" {
		list, err := ReadFileList(cfg.FileList)
		if err != nil {
			return nil, nil, "", err
		}
		root := cfg.InputDir
		if root == "" && len(list.Files) > 0 {
			root = filepath.Dir(list.Files[0])
		}
		return list.Files, list, root, nil
	}
	files, err := Discover(cfg.InputDir, cfg)
	if err != nil {
		return nil, nil, "", fmt.Errorf("discovering files: %w", err)
	}
	return files, nil, cfg.InputDir, nil
}

// openCatalog opens the catalog sink when configured. A run ID already
// present in the database means this is a resumed list run: its recorded
// paths come back so the loop can skip them.
func openCatalog(ctx context.Context, cfg *config.Config, log *logging.Logger, runID, root string) (*catalog.Catalog, map[string]bool, error) {
	if cfg.DBPath == "" {
		return nil, nil, nil
	}
	cat, err := catalog.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	exists, err := cat.RunExists(ctx, runID)
	if err != nil {
		cat.Close()
		return nil, nil, err
	}
	if !exists {
		if err := cat.BeginRun(ctx, runID, root); err != nil {
			cat.Close()
			return nil, nil, err
		}
		return cat, nil, nil
	}
	seen, err := cat.SeenPaths(ctx, runID)
	if err != nil {
		log.Warn("Catalog resume lookup failed: %v", err)
		return cat, nil, nil
	}
	log.Info("Resumed run has %d recorded files", len(seen))
	return cat, seen, nil
}

// processOne runs the per-file chain. It never fails the batch: a probe or
// stat error yields the fixed-width error record instead.
func processOne(
	ctx context.Context,
	cfg *config.Config,
	prober *probe.Prober,
	thresholds issues.Thresholds,
	sampler *sample.Sampler,
	path string,
) *record.FileRecord {
	fi, err := os.Stat(path)
	if err != nil {
		return record.NewError(path, fmt.Sprintf("stat failed: %v", err))
	}

	doc, err := prober.Probe(ctx, path)
	if err != nil {
		return record.NewError(path, fmt.Sprintf("probe failed: %v", err))
	}

	res := classify.Classify(doc)
	rep := thresholds.Detect(res)
	rec := record.New(path, fi, res, rep)
	rec.FolderSubs = FolderSubtitles(path)
	if cfg.RawProbe {
		rec.SetRaw(doc.Raw)
	}

	if sampler != nil {
		if dur, ok := res.Format.Duration.Float64(); ok && dur > 0 {
			rec.Samples = sampler.SampleFile(ctx, path, dur, res.Video.FPS)
		}
	}
	return rec
}

// WriteList discovers the file set and writes a processing list instead of
// running the pipeline. The list carries a fresh run ID for the run that
// will process it.
func WriteList(cfg *config.Config, log *logging.Logger) error {
	files, err := Discover(cfg.InputDir, cfg)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(cfg.OutputDir, naming.FileListName(naming.RunStamp(time.Now()), cfg.InputDir))
	resume := resumeCommand(path)
	if err := WriteFileList(path, files, resume, uuid.New().String()); err != nil {
		return err
	}
	log.Success("Wrote %d files to %s", len(files), path)
	log.Info("Resume with: %s", resume)
	return nil
}

// resumeCommand reconstructs the current invocation with the generation
// flag dropped and the list substituted in.
func resumeCommand(listPath string) string {
	var args []string
	for _, a := range os.Args {
		if a == "--write-file-list" || a == "-write-file-list" {
			continue
		}
		args = append(args, a)
	}
	return strings.Join(append(args, "--file-list", listPath), " ")
}

func logRunHeader(cfg *config.Config, log *logging.Logger, rs *RunStats, runID string, cat *catalog.Catalog) {
	log.Info("Found %d files", rs.Total)
	log.Info("Run ID: %s", runID)
	if cat != nil {
		log.Info("Catalog: %s", cat.Path())
	}
	if cfg.SampleCount > 0 {
		duration := "full duration"
		if cfg.SampleSeconds > 0 {
			duration = fmt.Sprintf("%ds each", cfg.SampleSeconds)
		}
		log.Info("Transcode sampling: %d per file, %s, mode %s", cfg.SampleCount, duration, cfg.HwAccel)
	}
	if cfg.RawProbe {
		log.Info("Raw probe output column enabled")
	}
}

// logRecord emits the per-file result line. Clean files only show up in
// verbose mode; flagged and failed files always do.
func logRecord(cfg *config.Config, log *logging.Logger, rec *record.FileRecord, n, total int) {
	switch {
	case rec.Failed:
		log.Error("[%d/%d] %s: %s", n, total, rec.Name, rec.Reason)
	case rec.Issues != nil && rec.Issues.Any():
		log.Outlier("[%d/%d] %s: %s", n, total, rec.Name, rec.Issues.Description())
	default:
		log.Debug(cfg.Verbose, "[%d/%d] %s: no issues", n, total, rec.Name)
	}
}

func logSummary(log *logging.Logger, rs *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d processed, %d failed, %d skipped", rs.Processed, rs.Failed, rs.Skipped)
	log.Info("Report: %s", rs.ReportPath)
	if rs.StatsPath != "" {
		log.Info("Statistics: %s", rs.StatsPath)
	}
}
