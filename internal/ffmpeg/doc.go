// Package ffmpeg runs external ffmpeg processes under a watchdog and
// interprets their output.
//
// Implemented:
//   - Handle: a started process with WaitTimeout, owning the
//     interrupt-then-kill termination sequence (process.go)
//   - LastSpeed: extracts the final "speed=" token from encoder
//     progress output (progress.go)
//   - ClassifyDecodeErrors: compiled regexes mapping decoder stderr to
//     stable issue kinds for the health-check report (errors.go)
//
// Command lines are built by the callers: the sampler knows its encoder
// flags and the health check its decode flags. This package only owns
// process lifetime and output interpretation.
package ffmpeg
