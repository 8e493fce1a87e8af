// Package record turns the per-file analysis results into inventory rows
// and streams them to a delimited report file.
//
// Implemented:
//   - FileRecord: the complete result for one media file (identity block,
//     classified metadata, issue report, transcode samples), including the
//     error sentinel form for files whose probe failed
//   - Layout: the fixed column order for a run, parameterized on the sample
//     count and the optional raw probe column
//   - Writer: delimited output via encoding/csv, header first, one row per
//     record, flushed after every row
//
// Every row of a run has the same width. A probe failure renders as a row
// whose path columns are real and whose remaining columns all carry the
// error sentinel, so consumers can index columns by fixed position and can
// tell a failed file apart from a clean one.
package record
