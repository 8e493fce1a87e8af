package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xoChrisCo/video-toolbox/internal/probe"
	"github.com/xoChrisCo/video-toolbox/internal/record"
)

// BeginRun inserts a fresh run row. The caller owns the run ID (a UUID)
// because resumed runs reuse the ID their file list was generated with.
func (c *Catalog) BeginRun(ctx context.Context, runID, root string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)`,
		runID, root, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording run start: %w", err)
	}
	return nil
}

// FinishRun stamps a run row with its end time, final counts and the path
// of the CSV report it produced.
func (c *Catalog) FinishRun(ctx context.Context, runID string, processed, failed int, reportPath string) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, failed = ?, report_path = ? WHERE id = ?`,
		time.Now().UTC(), processed, failed, reportPath, runID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// InsertRecord stores one file record and its samples under a run. The
// record row and its sample rows commit together or not at all.
func (c *Catalog) InsertRecord(ctx context.Context, runID string, rec *record.FileRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting record insert: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (
			id, run_id, path, size, modified_at,
			container, video_codec, width, height,
			duration_seconds, bitrate_bps, hdr,
			issue_flags, issue_description, failed, fail_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, runID, rec.Path, rec.Size, nullTime(rec.Modified),
		rec.Media.Format.Container, rec.Media.Video.Codec,
		nullInt(rec.Media.Video.Width), nullInt(rec.Media.Video.Height),
		nullFloat(rec.Media.Format.Duration), nullFloat(rec.Media.Video.BitRate),
		rec.Media.Video.HDR,
		firedFlags(rec), issueDescription(rec), rec.Failed, rec.Reason,
	)
	if err != nil {
		return fmt.Errorf("inserting record for %s: %w", rec.Path, err)
	}

	for _, s := range rec.Samples {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO samples (
				record_id, idx, start_seconds, slice_seconds, speed, ratio, tier
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, s.Index, s.Start, s.Seconds, s.SpeedLabel(), s.RatioLabel(), string(s.Tier),
		)
		if err != nil {
			return fmt.Errorf("inserting sample %d for %s: %w", s.Index, rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record for %s: %w", rec.Path, err)
	}
	return nil
}

// SeenPaths returns every path already recorded under a run. A resumed run
// uses this to skip files its interrupted predecessor finished, even when
// the file list cursor is stale.
func (c *Catalog) SeenPaths(ctx context.Context, runID string) (map[string]bool, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT path FROM records WHERE run_id = ?`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recorded paths: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning recorded path: %w", err)
		}
		seen[p] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recorded paths: %w", err)
	}
	return seen, nil
}

// RunExists reports whether a run row with the given ID is present. The
// pipeline uses it to decide whether a run ID read from a file list header
// can be resumed against this database.
func (c *Catalog) RunExists(ctx context.Context, runID string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM runs WHERE id = ?`, runID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("looking up run: %w", err)
	}
	return n > 0, nil
}

// nullInt maps an absent numeric field to SQL NULL.
func nullInt(n probe.Num) any {
	if v, ok := n.Int(); ok {
		return v
	}
	return nil
}

// nullFloat maps an absent numeric field to SQL NULL.
func nullFloat(n probe.Num) any {
	if v, ok := n.Float64(); ok {
		return v
	}
	return nil
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// firedFlags joins the names of the issue rules that fired, in rule order.
func firedFlags(rec *record.FileRecord) string {
	if rec.Issues == nil {
		return ""
	}
	var names []string
	for _, f := range rec.Issues.Flags() {
		if f.Set {
			names = append(names, f.Name)
		}
	}
	return strings.Join(names, ", ")
}

func issueDescription(rec *record.FileRecord) string {
	if rec.Issues == nil {
		return ""
	}
	return rec.Issues.Description()
}
