// Package naming builds the file names a run writes: timestamped output and
// statistics files, health-check reports, and collision-free paths for
// retained sample clips.
//
// Implemented:
//   - RunStamp, OutputFile, StatsFile, FileListName, HealthCheckFile:
//     per-run file names with a sanitized source-folder component
//     (runfiles.go)
//   - Timecode: offset seconds as a filename-safe HH_MM_SS_mmm tag (clip.go)
//   - ClipNamer: per-run registry handing out clip paths (clip.go)
//   - CollisionResolver: in-run duplicate path resolver with owner map and
//     counter (collision.go)
package naming
