package archive

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteZip writes the contents of srcDir to zipPath, replacing any existing
// file. Entry names are relative to srcDir and directories get their own
// entries. It returns the archive size and its hex SHA-256.
func WriteZip(ctx context.Context, srcDir, zipPath string) (size int64, sum string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(zipPath), "."+filepath.Base(zipPath)+".tmp-*")
	if err != nil {
		return 0, "", fmt.Errorf("create zip file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{}
	zipWriter := zip.NewWriter(io.MultiWriter(tmp, hasher, counter))

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		return addEntry(zipWriter, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		return 0, "", fmt.Errorf("archive %s: %w", srcDir, walkErr)
	}
	if err := zipWriter.Close(); err != nil {
		return 0, "", fmt.Errorf("finish zip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, "", fmt.Errorf("close zip: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return 0, "", fmt.Errorf("chmod zip: %w", err)
	}
	if err := os.Rename(tmpPath, zipPath); err != nil {
		return 0, "", fmt.Errorf("replace zip: %w", err)
	}
	committed = true
	return counter.n, hex.EncodeToString(hasher.Sum(nil)), nil
}

func addEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header for %s: %w", path, err)
	}
	header.Name = name

	switch {
	case d.IsDir():
		header.Name += "/"
		header.Method = zip.Store
		_, err = zw.CreateHeader(header)
		return err
	case d.Type()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return err
		}
		header.Method = zip.Store
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, target)
		return err
	default:
		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(w, file)
		return err
	}
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
