package sieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"wavsift/internal/fileutil"
	"wavsift/internal/logging"
	"wavsift/internal/manifest"
	"wavsift/internal/scanner"
	"wavsift/internal/wavinfo"
)

// ErrLocked reports that another run currently holds the output lock.
var ErrLocked = errors.New("another wavsift run is in progress")

// Bounds is the inclusive duration acceptance window in milliseconds.
// When HasMax is false there is no upper bound. An inverted window
// (Max < Min) accepts nothing; it is not an error.
type Bounds struct {
	MinMS  int64
	MaxMS  int64
	HasMax bool
}

// Contains reports whether a duration falls inside the window.
func (b Bounds) Contains(ms int64) bool {
	if ms < b.MinMS {
		return false
	}
	if b.HasMax && ms > b.MaxMS {
		return false
	}
	return true
}

func (b Bounds) String() string {
	if b.HasMax {
		return fmt.Sprintf("[%d ms, %d ms]", b.MinMS, b.MaxMS)
	}
	return fmt.Sprintf("[%d ms, +inf)", b.MinMS)
}

// Outcome classifies what happened to one candidate file.
type Outcome string

const (
	// OutcomeCopied means the file passed the bounds and reached the output tree.
	OutcomeCopied Outcome = "copied"
	// OutcomeFiltered means the duration fell outside the bounds.
	OutcomeFiltered Outcome = "filtered"
	// OutcomeFailed means the file could not be measured or copied.
	OutcomeFailed Outcome = "failed"
)

// FileResult records the fate of one candidate.
type FileResult struct {
	RelPath    string
	DurationMS int64 // -1 when the duration could not be determined
	Outcome    Outcome
	Detail     string
}

// Report aggregates one run.
type Report struct {
	RunID    string
	Copied   int
	Filtered int
	Failed   int
	Results  []FileResult
}

// Options configures a Sieve.
type Options struct {
	Logger *slog.Logger
	// Manifest, when non-nil, receives a row per run and per examined file.
	Manifest *manifest.Store
	// LockPath, when set, is a lock file guarding against concurrent runs.
	LockPath string
	// Verify switches copies to the SHA256-checked variant.
	Verify bool
}

// Sieve filters WAV files by duration and copies keepers.
type Sieve struct {
	logger   *slog.Logger
	store    *manifest.Store
	lockPath string
	verify   bool
}

// New constructs a Sieve. A nil logger disables logging.
func New(opts Options) *Sieve {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sieve{
		logger:   logger,
		store:    opts.Manifest,
		lockPath: opts.LockPath,
		verify:   opts.Verify,
	}
}

// Run walks inputRoot, copies every WAV file whose duration lies within
// bounds into outputRoot preserving relative paths, and reports the counts.
// The input tree is never mutated; re-running with identical inputs
// overwrites the same outputs.
func (s *Sieve) Run(ctx context.Context, inputRoot, outputRoot string, bounds Bounds) (*Report, error) {
	info, err := os.Stat(inputRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scanner.ErrBadRoot, inputRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", scanner.ErrBadRoot, inputRoot)
	}

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create output root %q: %w", outputRoot, err)
	}

	if s.lockPath != "" {
		lock := flock.New(s.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w (lock held at %s)", ErrLocked, s.lockPath)
		}
		defer func() { _ = lock.Unlock() }()
	}

	report := &Report{RunID: uuid.NewString()}
	logger := s.logger.With(logging.String("run_id", report.RunID))

	var manifestRunID int64
	if s.store != nil {
		manifestRunID, err = s.store.BeginRun(ctx, report.RunID, inputRoot, outputRoot, bounds.MinMS, bounds.MaxMS, bounds.HasMax)
		if err != nil {
			return nil, fmt.Errorf("record run in manifest: %w", err)
		}
	}

	logger.Info("starting filter run",
		logging.Args(
			logging.String("input_root", inputRoot),
			logging.String("output_root", outputRoot),
			logging.String("bounds", bounds.String()),
			logging.Bool("verify", s.verify),
		)...)

	walkErr := scanner.Walk(ctx, inputRoot, logger, func(c scanner.Candidate) error {
		result := s.processCandidate(logger, outputRoot, bounds, c)
		report.Results = append(report.Results, result)
		switch result.Outcome {
		case OutcomeCopied:
			report.Copied++
		case OutcomeFiltered:
			report.Filtered++
		case OutcomeFailed:
			report.Failed++
		}
		if s.store != nil {
			if err := s.store.RecordFile(ctx, manifestRunID, result.RelPath, result.DurationMS, string(result.Outcome), result.Detail); err != nil {
				logger.Warn("manifest write failed",
					logging.Args(logging.String("relative_path", result.RelPath), logging.Error(err))...)
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if s.store != nil {
		if err := s.store.FinishRun(ctx, manifestRunID, report.Copied, report.Filtered, report.Failed); err != nil {
			logger.Warn("manifest finalize failed", logging.Args(logging.Error(err))...)
		}
	}

	logger.Info("filter run complete",
		logging.Args(
			logging.Int("copied", report.Copied),
			logging.Int("filtered", report.Filtered),
			logging.Int("failed", report.Failed),
		)...)
	return report, nil
}

func (s *Sieve) processCandidate(logger *slog.Logger, outputRoot string, bounds Bounds, c scanner.Candidate) FileResult {
	ms, err := wavinfo.DurationMS(c.Path)
	if err != nil {
		logger.Warn("skipping file without a readable duration",
			logging.Args(logging.String("path", c.Path), logging.Error(err))...)
		return FileResult{RelPath: c.RelPath, DurationMS: -1, Outcome: OutcomeFailed, Detail: err.Error()}
	}

	if !bounds.Contains(ms) {
		logger.Debug("duration outside bounds",
			logging.Args(logging.String("relative_path", c.RelPath), logging.Int64("duration_ms", ms))...)
		return FileResult{RelPath: c.RelPath, DurationMS: ms, Outcome: OutcomeFiltered, Detail: "duration outside bounds"}
	}

	dst := filepath.Join(outputRoot, c.RelPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		logger.Error("cannot create destination directory",
			logging.Args(logging.String("destination", dst), logging.Error(err))...)
		return FileResult{RelPath: c.RelPath, DurationMS: ms, Outcome: OutcomeFailed, Detail: err.Error()}
	}

	copyFile := fileutil.CopyFile
	if s.verify {
		copyFile = fileutil.CopyFileVerified
	}
	if err := copyFile(c.Path, dst); err != nil {
		logger.Error("copy failed",
			logging.Args(logging.String("path", c.Path), logging.String("destination", dst), logging.Error(err))...)
		return FileResult{RelPath: c.RelPath, DurationMS: ms, Outcome: OutcomeFailed, Detail: err.Error()}
	}

	logger.Info("copied file",
		logging.Args(logging.String("relative_path", c.RelPath), logging.Int64("duration_ms", ms))...)
	return FileResult{RelPath: c.RelPath, DurationMS: ms, Outcome: OutcomeCopied}
}
