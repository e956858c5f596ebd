// Package sieve runs the filter-and-copy pipeline: walk the input tree,
// measure each WAV file's duration from its header, keep files inside the
// inclusive bound window, and copy keepers into the output tree preserving
// relative paths.
//
// Failures tied to a single file (unreadable header, malformed container,
// copy error) are logged, recorded in the report, and never abort the run.
// Only errors that prevent the run from starting at all — a bad input root,
// an uncreatable output root, a lock already held — are returned from Run.
package sieve
