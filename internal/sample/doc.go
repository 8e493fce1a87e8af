// Package sample measures how fast a file transcodes by encoding short
// slices of it and reading back ffmpeg's own speed figure.
//
// The first slice always starts at zero so every file contributes one
// deterministic data point; the rest start at random offsets so codecs with
// uneven complexity (grain bursts, dark scenes) still get representative
// coverage. Each slice runs under a watchdog: a sample that cannot encode
// its own duration plus a grace period is aborted and scored as
// barely-sub-realtime rather than poisoning the run.
//
// Implemented:
//   - Sampler: per-run settings plus the offset RNG (sampler.go)
//   - Sample, Outcome, Tier: one slice's measured result (sampler.go)
//   - encoder flag bundles per hardware path (modes.go)
package sample
