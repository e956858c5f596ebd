package manifest

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases with another version are rejected.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages manifest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// RunRecord summarizes one recorded run.
type RunRecord struct {
	ID         int64
	RunID      string
	InputRoot  string
	OutputRoot string
	MinMS      int64
	MaxMS      *int64
	StartedAt  string
	FinishedAt string
	Copied     int64
	Filtered   int64
	Failed     int64
}

// FileRecord is one examined file within a run.
type FileRecord struct {
	RelativePath string
	DurationMS   *int64
	Outcome      string
	Detail       string
}

// Open initializes or connects to the manifest database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database location on disk.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start fresh)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRun inserts a new run row and returns its database ID. maxMS is
// ignored unless hasMax is true.
func (s *Store) BeginRun(ctx context.Context, runID, inputRoot, outputRoot string, minMS, maxMS int64, hasMax bool) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var max any
	if hasMax {
		max = maxMS
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, input_root, output_root, min_ms, max_ms, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, inputRoot, outputRoot, minMS, max, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// RecordFile appends one examined file to the run. A negative durationMS is
// stored as NULL (duration unknown, e.g. malformed header).
func (s *Store) RecordFile(ctx context.Context, runID int64, relPath string, durationMS int64, outcome, detail string) error {
	var duration any
	if durationMS >= 0 {
		duration = durationMS
	}
	var detailValue any
	if detail != "" {
		detailValue = detail
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_files (run_id, relative_path, duration_ms, outcome, detail)
         VALUES (?, ?, ?, ?, ?)`,
		runID, relPath, duration, outcome, detailValue,
	)
	if err != nil {
		return fmt.Errorf("insert run file: %w", err)
	}
	return nil
}

// FinishRun stamps the end time and final counters on the run row.
func (s *Store) FinishRun(ctx context.Context, runID int64, copied, filtered, failed int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, copied = ?, filtered = ?, failed = ? WHERE id = ?`,
		now, copied, filtered, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Run fetches one run row by database ID.
func (s *Store) Run(ctx context.Context, runID int64) (*RunRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, run_id, input_root, output_root, min_ms, max_ms, started_at,
                COALESCE(finished_at, ''), copied, filtered, failed
         FROM runs WHERE id = ?`,
		runID,
	)

	var rec RunRecord
	var max sql.NullInt64
	if err := row.Scan(&rec.ID, &rec.RunID, &rec.InputRoot, &rec.OutputRoot, &rec.MinMS,
		&max, &rec.StartedAt, &rec.FinishedAt, &rec.Copied, &rec.Filtered, &rec.Failed); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if max.Valid {
		value := max.Int64
		rec.MaxMS = &value
	}
	return &rec, nil
}

// RunFiles lists every file recorded for the run, in insertion order.
func (s *Store) RunFiles(ctx context.Context, runID int64) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT relative_path, duration_ms, outcome, COALESCE(detail, '')
         FROM run_files WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var rec FileRecord
		var duration sql.NullInt64
		if err := rows.Scan(&rec.RelativePath, &duration, &rec.Outcome, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		if duration.Valid {
			value := duration.Int64
			rec.DurationMS = &value
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return records, nil
}
