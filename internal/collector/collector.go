package collector

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"plugpack/internal/config"
	"plugpack/internal/fileutil"
	"plugpack/internal/logging"
	"plugpack/internal/scope"
)

// Options configures artifact discovery and cleanup.
type Options struct {
	// WorkDir is searched for zip and directory artifacts.
	WorkDir string
	// DebugSymbolSuffix marks debug symbol directories removed at any depth.
	DebugSymbolSuffix string
	// JunkFiles are file names removed at any depth for junk-stripping scopes.
	JunkFiles []string
}

// OptionsFromConfig derives collector options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		WorkDir:           cfg.Paths.WorkDir,
		DebugSymbolSuffix: cfg.Collect.DebugSymbolSuffix,
		JunkFiles:         append([]string(nil), cfg.Collect.JunkFiles...),
	}
}

// Result lists what a collection pass consumed and removed.
type Result struct {
	StagingDir string   `json:"staging_dir"`
	Zips       []string `json:"zips,omitempty"`
	Dirs       []string `json:"dirs,omitempty"`
	Removed    []string `json:"removed,omitempty"`
}

// Collector merges artifacts into staging directories.
type Collector struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a collector.
func New(opts Options, logger *slog.Logger) *Collector {
	return &Collector{opts: opts, logger: logging.NewComponentLogger(logger, "collector")}
}

// Collect merges every artifact matching the scope's patterns into its
// staging directory and removes debug symbols and junk files. Finding no
// artifacts is not an error; the staging directory is still created.
func (c *Collector) Collect(ctx context.Context, s scope.Scope) (*Result, error) {
	logger := logging.WithContext(ctx, c.logger)
	result := &Result{StagingDir: s.StagingDir}

	if err := os.MkdirAll(s.StagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	zips, err := c.match(s.ZipPatterns, func(info fs.FileInfo) bool { return info.Mode().IsRegular() })
	if err != nil {
		return nil, err
	}
	for _, zipPath := range zips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := Extract(ctx, zipPath, s.StagingDir); err != nil {
			return nil, fmt.Errorf("extract %s: %w", zipPath, err)
		}
		result.Zips = append(result.Zips, zipPath)
		logger.Info("merged zip artifact", logging.String("source", zipPath))
	}

	dirs, err := c.match(s.DirPatterns, func(info fs.FileInfo) bool { return info.IsDir() })
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if filepath.Clean(dir) == filepath.Clean(s.StagingDir) {
			continue
		}
		if err := fileutil.CopyTree(ctx, dir, s.StagingDir); err != nil {
			return nil, fmt.Errorf("merge %s: %w", dir, err)
		}
		result.Dirs = append(result.Dirs, dir)
		logger.Info("merged artifact directory", logging.String("source", dir))
	}

	if len(result.Zips) == 0 && len(result.Dirs) == 0 {
		logger.Info("no artifacts found",
			logging.String("work_dir", c.opts.WorkDir),
			logging.String(logging.FieldEventType, "artifacts_missing"),
		)
	}

	removed, err := c.clean(ctx, s)
	if err != nil {
		return nil, err
	}
	result.Removed = removed
	if len(removed) > 0 {
		logger.Debug("removed debug symbols and junk files", logging.Int("count", len(removed)))
	}
	return result, nil
}

func (c *Collector) match(patterns []string, keep func(fs.FileInfo) bool) ([]string, error) {
	seen := make(map[string]struct{})
	var matches []string
	for _, pattern := range patterns {
		found, err := filepath.Glob(filepath.Join(c.opts.WorkDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("artifact pattern %q: %w", pattern, err)
		}
		for _, path := range found {
			if _, ok := seen[path]; ok {
				continue
			}
			info, err := os.Stat(path)
			if err != nil || !keep(info) {
				continue
			}
			seen[path] = struct{}{}
			matches = append(matches, path)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (c *Collector) clean(ctx context.Context, s scope.Scope) ([]string, error) {
	junk := make(map[string]struct{}, len(c.opts.JunkFiles))
	if s.StripJunk {
		for _, name := range c.opts.JunkFiles {
			junk[name] = struct{}{}
		}
	}

	var removed []string
	err := filepath.WalkDir(s.StagingDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == s.StagingDir {
			return nil
		}
		if d.IsDir() {
			if c.opts.DebugSymbolSuffix != "" && strings.HasSuffix(d.Name(), c.opts.DebugSymbolSuffix) {
				if err := os.RemoveAll(path); err != nil {
					return fmt.Errorf("remove debug symbols %s: %w", path, err)
				}
				removed = append(removed, path)
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := junk[d.Name()]; ok {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove junk file %s: %w", path, err)
			}
			removed = append(removed, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
