package manifest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordRunRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.BeginRun(ctx, "run-abc", "/in", "/out", 100, 1000, true)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	if err := store.RecordFile(ctx, id, "sub/a.wav", 300, "copied", ""); err != nil {
		t.Fatalf("RecordFile: %v", err)
	}
	if err := store.RecordFile(ctx, id, "b.wav", 5000, "filtered", "duration out of bounds"); err != nil {
		t.Fatalf("RecordFile: %v", err)
	}
	if err := store.RecordFile(ctx, id, "bad.wav", -1, "failed", "malformed WAV container"); err != nil {
		t.Fatalf("RecordFile: %v", err)
	}
	if err := store.FinishRun(ctx, id, 1, 1, 1); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := store.Run(ctx, id)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.RunID != "run-abc" {
		t.Errorf("run_id: got %q", run.RunID)
	}
	if run.MinMS != 100 || run.MaxMS == nil || *run.MaxMS != 1000 {
		t.Errorf("bounds: got min=%d max=%v", run.MinMS, run.MaxMS)
	}
	if run.Copied != 1 || run.Filtered != 1 || run.Failed != 1 {
		t.Errorf("counts: got %d/%d/%d", run.Copied, run.Filtered, run.Failed)
	}
	if run.FinishedAt == "" {
		t.Error("finished_at not stamped")
	}

	files, err := store.RunFiles(ctx, id)
	if err != nil {
		t.Fatalf("RunFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files: got %d, want 3", len(files))
	}
	if files[0].RelativePath != "sub/a.wav" || files[0].Outcome != "copied" {
		t.Errorf("first file: %+v", files[0])
	}
	if files[0].DurationMS == nil || *files[0].DurationMS != 300 {
		t.Errorf("first duration: %v", files[0].DurationMS)
	}
	if files[2].DurationMS != nil {
		t.Errorf("failed file should have NULL duration, got %v", *files[2].DurationMS)
	}
	if files[2].Detail == "" {
		t.Error("failed file lost its detail")
	}
}

func TestBeginRunUnboundedMax(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.BeginRun(ctx, "run-unbounded", "/in", "/out", 0, 0, false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	run, err := store.Run(ctx, id)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.MaxMS != nil {
		t.Fatalf("unbounded max stored as %d", *run.MaxMS)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := first.BeginRun(context.Background(), "run-1", "/in", "/out", 0, 0, false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if _, err := second.Run(context.Background(), id); err != nil {
		t.Fatalf("run lost across reopen: %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
