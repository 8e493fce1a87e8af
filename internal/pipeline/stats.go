package pipeline

import "time"

// RunStats is the outcome of one pipeline run, for the exit path and the
// final log summary. The full statistics live in the stats report.
type RunStats struct {
	Total     int // files the run set out to process
	Processed int
	Failed    int
	Skipped   int // already recorded under a resumed run, or undeterminable

	Elapsed time.Duration

	ReportPath string // the CSV report
	StatsPath  string // the statistics text file, when written
}
