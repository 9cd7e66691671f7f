package collector

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks zipPath into destDir, overwriting files that already exist.
// Entries that would land outside destDir are rejected, whether by name, by
// a symlink target, or by a symlink already on the path.
func Extract(ctx context.Context, zipPath, destDir string) (err error) {
	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	if err := os.MkdirAll(absDestDir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	realDestDir, err := filepath.EvalSymlinks(absDestDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	zipReader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() {
		if closeErr := zipReader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, file := range zipReader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		destPath := filepath.Join(absDestDir, filepath.FromSlash(file.Name))
		if !within(absDestDir, destPath) {
			return fmt.Errorf("invalid path in zip: %s", file.Name)
		}
		if err := checkResolved(realDestDir, filepath.Dir(destPath)); err != nil {
			return fmt.Errorf("invalid path in zip: %s: %w", file.Name, err)
		}

		mode := file.Mode()
		switch {
		case file.FileInfo().IsDir():
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		case mode&os.ModeSymlink != 0:
			if err := extractSymlink(file, absDestDir, destPath); err != nil {
				return fmt.Errorf("extract %s: %w", file.Name, err)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
				return fmt.Errorf("create parent directory: %w", err)
			}
			// Replace a link in place instead of writing through it.
			if info, err := os.Lstat(destPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
				if err := os.Remove(destPath); err != nil {
					return fmt.Errorf("replace symlink %s: %w", file.Name, err)
				}
			}
			if err := extractFile(file, destPath); err != nil {
				return fmt.Errorf("extract %s: %w", file.Name, err)
			}
		}
	}
	return nil
}

func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Archives written on Windows carry no Unix permission bits.
	perm := file.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: artifacts come from our own CI runs.
	if _, err = io.Copy(destFile, rc); err != nil {
		return err
	}
	return os.Chmod(destPath, perm)
}

// extractSymlink recreates a link entry. Absolute targets and targets that
// leave root are rejected.
func extractSymlink(file *zip.File, root, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(io.LimitReader(rc, 4096))
	rc.Close()
	if err != nil {
		return err
	}
	target := string(raw)
	if filepath.IsAbs(target) || !within(root, filepath.Join(filepath.Dir(destPath), target)) {
		return fmt.Errorf("symlink target %q escapes the destination", target)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(destPath); err != nil {
		return err
	}
	return os.Symlink(target, destPath)
}

// within reports whether path is root or lies below it, comparing cleaned
// text only.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// checkResolved follows symlinks on the existing part of dir and fails when
// it leads outside realRoot. Components that do not exist yet are plain names
// and cannot redirect anything.
func checkResolved(realRoot, dir string) error {
	existing := dir
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return nil
		}
		existing = parent
	}
	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return err
	}
	if !within(realRoot, resolved) {
		return fmt.Errorf("%s resolves outside the destination", existing)
	}
	return nil
}
