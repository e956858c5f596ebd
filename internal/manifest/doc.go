// Package manifest persists run results in SQLite.
//
// The Store records one row per run (bounds, roots, counts) and one row per
// examined file (relative path, duration, outcome, detail). The database is
// an audit trail, not working state: the pipeline never reads it back during
// a run, and deleting it only loses history. Schema changes bump
// schemaVersion in manifest.go; users delete the database to adopt the new
// schema.
package manifest
