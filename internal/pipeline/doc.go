// Package pipeline orchestrates the inventory run: file discovery, the
// sequential per-file probe/classify/detect/sample chain, the report sinks,
// and the decode health check.
//
// Implemented:
//   - Discover: extension-filtered walk with "extras" pruning, sorted
//   - FileList / WriteList: resumable processing lists with an in-place
//     cursor, generated up front or written on demand
//   - Run: the inventory pipeline (probe → classify → detect → sample →
//     record → CSV/catalog → cursor → statistics)
//   - HealthCheck: decode-integrity sampling with error classification
//
// Everything is sequential per file; cancellation is honored between files
// and inside the sampler, never mid-record.
package pipeline
