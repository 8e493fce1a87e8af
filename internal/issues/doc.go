// Package issues evaluates classified media metadata against a fixed set of
// transcode-friendliness rules and produces a per-file issue report.
//
// Every rule is independent and a file can trigger many at once. The
// thresholds encode serving policy (what the playback chain downstream copes
// with without transcoding trouble); they are configurable but default to the
// values the media library was curated against.
//
// Implemented:
//   - Thresholds: tunable rule limits, seeded from config (issues.go)
//   - Report: per-file flags plus sorted description strings (issues.go)
//   - Detect: the rule matrix itself (issues.go)
package issues
