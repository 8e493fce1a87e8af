// Package catalog persists runs, file records and transcode samples to a
// SQLite database, as an optional sink next to the CSV report.
//
// Implemented:
//   - Open: create-if-missing schema (runs, records, samples), ping-verified
//   - BeginRun / FinishRun: one row per pipeline run, keyed by UUID
//   - InsertRecord: one row per file record plus its samples, transactional
//   - RunExists / SeenPaths: resume support; paths already recorded under
//     a run let a resumed run skip files its interrupted predecessor
//     finished
//
// The catalog is additive only. Nothing in the pipeline reads it back except
// the resume lookup; history queries are for the operator's sqlite3 shell.
package catalog
