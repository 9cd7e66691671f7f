package staging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plugpack/internal/bundle"
	"plugpack/internal/logging"
)

// CleanResult contains the outcome of a cleanup operation.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanBundles removes leftover bundle directories older than maxAge from
// stagingDir. Release directories and zips are left alone. A zero maxAge
// removes every leftover bundle. The staging lock is held while removing.
func CleanBundles(ctx context.Context, stagingDir string, maxAge time.Duration, logger *slog.Logger) (CleanResult, error) {
	result := CleanResult{}

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result, nil
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, err
	}

	lock, err := Acquire(stagingDir)
	if err != nil {
		return result, err
	}
	defer lock.Release()

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), bundle.Suffix) {
			continue
		}

		dirPath := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}
		if maxAge > 0 && !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			if logger != nil {
				logger.Warn("failed to remove leftover bundle",
					logging.Path(dirPath),
					logging.Error(err),
					logging.String(logging.FieldEventType, "staging_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check staging directory permissions"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		if logger != nil {
			logger.Info("removed leftover bundle",
				logging.Path(dirPath),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
	}

	return result, nil
}

// Remove deletes stagingDir entirely, including any archives written into it.
func Remove(ctx context.Context, stagingDir string, logger *slog.Logger) error {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil
	}
	if _, err := os.Stat(stagingDir); os.IsNotExist(err) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := Acquire(stagingDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	if err := os.RemoveAll(stagingDir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	if logger != nil {
		logger.Info("removed staging directory",
			logging.Path(stagingDir),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
	return nil
}

// Kind classifies a staging entry.
type Kind string

const (
	KindBundle  Kind = "bundle"
	KindRelease Kind = "release"
	KindArchive Kind = "archive"
	KindOther   Kind = "other"
)

// DirInfo contains metadata about a staging entry.
type DirInfo struct {
	Name    string
	Path    string
	Kind    Kind
	ModTime time.Time
	Size    int64
}

// ListDirectories returns the entries of a staging directory with their
// metadata, sorted by name. A missing directory yields no entries.
func ListDirectories(stagingDir string) ([]DirInfo, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(stagingDir, entry.Name())
		kind := classify(entry.Name(), entry.IsDir())
		size := info.Size()
		if entry.IsDir() {
			size, _ = dirSize(path)
		}

		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    path,
			Kind:    kind,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}

	return dirs, nil
}

func classify(name string, isDir bool) Kind {
	switch {
	case isDir && strings.HasSuffix(name, bundle.Suffix):
		return KindBundle
	case isDir:
		return KindRelease
	case strings.HasSuffix(strings.ToLower(name), ".zip"):
		return KindArchive
	default:
		return KindOther
	}
}

// dirSize calculates the total size of a directory recursively.
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best effort
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
