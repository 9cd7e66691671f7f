package fileutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// CopyTree merges the contents of src into dst. Directories are created as
// needed and files that already exist in dst are overwritten; files in dst
// with no counterpart in src are left alone. Symlinks are recreated, not
// followed.
func CopyTree(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("copy tree: %s is not a directory", src)
	}
	return walkCopy(ctx, src, dst, false)
}

// MoveDir moves src to dst. dst must not exist. A rename is attempted first;
// when src and dst live on different filesystems the tree is copied, each
// file checked against its source digest, and src removed afterwards.
func MoveDir(ctx context.Context, src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("move %s: destination %s already exists", src, dst)
	}
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := walkCopy(ctx, src, dst, true); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("copy across devices: %w", err)
	}
	return os.RemoveAll(src)
}

func walkCopy(ctx context.Context, src, dst string, verify bool) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		// A directory or link in the way of a file (or vice versa) is replaced.
		if existing, err := os.Lstat(target); err == nil && (existing.Mode().Type() != 0 || d.Type() != 0) {
			if err := os.RemoveAll(target); err != nil {
				return err
			}
		}
		if d.Type()&fs.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm(), verify)
	})
}

// copyFile writes src to dst with mode. With verify set, dst is re-read and
// its SHA-256 compared to the bytes read from src; on mismatch dst is removed.
func copyFile(src, dst string, mode os.FileMode, verify bool) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			if verify {
				_ = os.Remove(dst)
			}
		}
	}()

	var sum hash.Hash
	var reader io.Reader = in
	if verify {
		sum = sha256.New()
		reader = io.TeeReader(in, sum)
	}
	if _, err = io.Copy(out, reader); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	// OpenFile only applies mode on creation; overwritten files keep their old bits.
	if err = os.Chmod(dst, mode); err != nil {
		return err
	}
	if verify {
		var got []byte
		if got, err = fileDigest(dst); err != nil {
			return err
		}
		if string(got) != string(sum.Sum(nil)) {
			err = fmt.Errorf("copy %s: digest mismatch", dst)
			return err
		}
	}
	return nil
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsRegular reports whether path exists and is a regular file.
func IsRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
