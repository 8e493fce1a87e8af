package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a handle to the inventory database.
type Catalog struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	root         TEXT NOT NULL,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME,
	processed    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	report_path  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS records (
	id                TEXT PRIMARY KEY,
	run_id            TEXT NOT NULL,
	path              TEXT NOT NULL,
	size              INTEGER NOT NULL,
	modified_at       DATETIME,
	container         TEXT NOT NULL DEFAULT '',
	video_codec       TEXT NOT NULL DEFAULT '',
	width             INTEGER,
	height            INTEGER,
	duration_seconds  REAL,
	bitrate_bps       REAL,
	hdr               INTEGER NOT NULL DEFAULT 0,
	issue_flags       TEXT NOT NULL DEFAULT '',
	issue_description TEXT NOT NULL DEFAULT '',
	failed            INTEGER NOT NULL DEFAULT 0,
	fail_reason       TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_records_run_path ON records(run_id, path);
CREATE INDEX IF NOT EXISTS idx_records_path ON records(path);

CREATE TABLE IF NOT EXISTS samples (
	record_id      TEXT NOT NULL,
	idx            INTEGER NOT NULL,
	start_seconds  REAL NOT NULL,
	slice_seconds  REAL NOT NULL,
	speed          TEXT NOT NULL,
	ratio          TEXT NOT NULL,
	tier           TEXT NOT NULL,
	PRIMARY KEY (record_id, idx),
	FOREIGN KEY (record_id) REFERENCES records(id)
);
`

// Open opens the database at path, creating the file and any missing parent
// directories and tables on first use.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog tables: %w", err)
	}

	return &Catalog{db: db, path: path}, nil
}

// Path returns the database file path the catalog was opened with.
func (c *Catalog) Path() string { return c.path }

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
