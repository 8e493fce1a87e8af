// Package probe provides ffprobe-based media inspection. A single JSON call
// per file yields a wire-level Document; interpretation of the fields lives
// in the classify package.
//
// Numeric fields use the Num type because ffprobe emits numbers
// inconsistently (bare, quoted, or absent) and a malformed value must not
// fail the whole document — that distinction feeds the unknown-metadata
// issue downstream.
package probe
