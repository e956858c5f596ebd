// Package scanner enumerates WAV file candidates under a directory tree.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wavsift/internal/logging"
)

// ErrBadRoot marks a scan root that does not exist or is not a directory.
var ErrBadRoot = errors.New("scan root is not a directory")

// Candidate is one WAV file found during a walk.
type Candidate struct {
	// Path is the candidate as reachable from the scan root (absolute when
	// the root is absolute).
	Path string
	// RelPath is the segment chain from the scan root to the file, used
	// verbatim to rebuild the output location.
	RelPath string
}

// Walk calls fn for every regular file under root whose name ends in .wav,
// case-insensitively, in directory order. Symlinks are not followed.
// Unreadable entries mid-walk are logged and skipped; a bad root aborts with
// ErrBadRoot. The sequence is lazy: fn sees each candidate as the walk
// reaches it, and an error from fn stops the walk.
func Walk(ctx context.Context, root string, logger *slog.Logger, fn func(Candidate) error) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadRoot, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrBadRoot, root)
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return fmt.Errorf("%w: %s: %v", ErrBadRoot, root, walkErr)
			}
			logger.Warn("skipping unreadable entry",
				logging.Args(logging.String("path", path), logging.Error(walkErr))...)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			logger.Warn("skipping entry without relative path",
				logging.Args(logging.String("path", path), logging.Error(relErr))...)
			return nil
		}
		return fn(Candidate{Path: path, RelPath: rel})
	})
}
