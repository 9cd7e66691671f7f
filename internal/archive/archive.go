// Package archive turns a validated bundle into a versioned release.
//
// A release is a directory named "<Plugin>_<Version>[_<suffix>]" holding the
// bundle and, when the plugin ships presets, a presets/<Vendor>/<Plugin> tree,
// plus a sibling zip of that directory's contents.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"plugpack/internal/bundle"
	"plugpack/internal/fileutil"
	"plugpack/internal/logging"
)

// Request describes one bundle to archive.
type Request struct {
	// Dir is the release directory to create or reuse.
	Dir    string
	Bundle bundle.Bundle
	// PresetsRoot is the preset tree root; presets are looked up under
	// <PresetsRoot>/<Vendor>/<Plugin>. Empty disables presets.
	PresetsRoot string
	Vendor      string
}

// Result describes a produced archive.
type Result struct {
	Dir        string
	BundlePath string
	ZipPath    string
	Presets    bool
	Size       int64
	SHA256     string
}

// Archiver produces release directories and zips.
type Archiver struct {
	logger *slog.Logger
}

// New constructs an archiver.
func New(logger *slog.Logger) *Archiver {
	return &Archiver{logger: logging.NewComponentLogger(logger, "archive")}
}

// Archive moves the bundle into req.Dir, replacing an older copy, adds the
// plugin's presets and writes req.Dir + ".zip". The zip holds the release
// directory's contents without a top-level folder.
func (a *Archiver) Archive(ctx context.Context, req Request) (Result, error) {
	if req.Dir == "" {
		return Result{}, errors.New("archive directory is required")
	}
	logger := logging.WithContext(ctx, a.logger)
	result := Result{Dir: req.Dir, ZipPath: req.Dir + ".zip"}

	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create archive directory: %w", err)
	}

	result.BundlePath = filepath.Join(req.Dir, req.Bundle.DirName())
	if err := os.RemoveAll(result.BundlePath); err != nil {
		return Result{}, fmt.Errorf("remove previous bundle: %w", err)
	}
	if err := fileutil.MoveDir(ctx, req.Bundle.Path, result.BundlePath); err != nil {
		return Result{}, fmt.Errorf("move bundle: %w", err)
	}

	copied, err := a.copyPresets(ctx, req)
	if err != nil {
		return Result{}, err
	}
	result.Presets = copied

	size, sum, err := WriteZip(ctx, req.Dir, result.ZipPath)
	if err != nil {
		return Result{}, err
	}
	result.Size = size
	result.SHA256 = sum

	logger.Info("archive written",
		logging.String("zip", result.ZipPath),
		logging.Int64("size_bytes", size),
		logging.Bool("presets", copied),
	)
	return result, nil
}

func (a *Archiver) copyPresets(ctx context.Context, req Request) (bool, error) {
	if req.PresetsRoot == "" {
		return false, nil
	}
	src := filepath.Join(req.PresetsRoot, req.Vendor, req.Bundle.Name)
	if !fileutil.IsDir(src) {
		logging.WithContext(ctx, a.logger).Debug("no presets for plugin", logging.Path(src))
		return false, nil
	}
	dst := filepath.Join(req.Dir, filepath.Base(req.PresetsRoot), req.Vendor, req.Bundle.Name)
	if err := fileutil.CopyTree(ctx, src, dst); err != nil {
		return false, fmt.Errorf("copy presets: %w", err)
	}
	return true, nil
}
