package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVersioning()
	if err := c.normalizeManual(); err != nil {
		return err
	}
	if err := c.normalizePresets(); err != nil {
		return err
	}
	c.normalizeCollect()
	if err := c.normalizeScopes(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	base := c.Paths.WorkDir
	if strings.TrimSpace(c.Paths.SourceRoot) == "" {
		c.Paths.SourceRoot = defaultSourceRoot
	}
	if c.Paths.SourceRoot, err = resolveAgainst(base, c.Paths.SourceRoot); err != nil {
		return fmt.Errorf("paths.source_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.BuildConfig) == "" {
		c.Paths.BuildConfig = defaultBuildConfig
	}
	if c.Paths.BuildConfig, err = resolveAgainst(base, c.Paths.BuildConfig); err != nil {
		return fmt.Errorf("paths.build_config: %w", err)
	}
	if c.Paths.OutputDir, err = resolveAgainst(base, c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = resolveAgainst(base, c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVersioning() {
	c.Versioning.DescriptorPath = filepath.Clean(strings.TrimSpace(c.Versioning.DescriptorPath))
	if c.Versioning.DescriptorPath == "." {
		c.Versioning.DescriptorPath = defaultDescriptorPath
	}
	c.Versioning.MajorKey = defaultString(c.Versioning.MajorKey, defaultMajorKey)
	c.Versioning.MinorKey = defaultString(c.Versioning.MinorKey, defaultMinorKey)
	c.Versioning.PatchKey = defaultString(c.Versioning.PatchKey, defaultPatchKey)
}

func (c *Config) normalizeManual() error {
	var err error
	base := c.Paths.WorkDir
	if c.Manual.Root, err = resolveAgainst(base, defaultString(c.Manual.Root, defaultManualRoot)); err != nil {
		return fmt.Errorf("manual.root: %w", err)
	}
	if c.Manual.Aliases, err = resolveAgainst(base, c.Manual.Aliases); err != nil {
		return fmt.Errorf("manual.aliases: %w", err)
	}
	c.Manual.DocumentationPath = filepath.Clean(defaultString(c.Manual.DocumentationPath, defaultDocumentationPath))
	return nil
}

func (c *Config) normalizePresets() error {
	var err error
	if c.Presets.Root, err = resolveAgainst(c.Paths.WorkDir, c.Presets.Root); err != nil {
		return fmt.Errorf("presets.root: %w", err)
	}
	c.Presets.Vendor = strings.TrimSpace(c.Presets.Vendor)
	return nil
}

func (c *Config) normalizeCollect() {
	c.Collect.DebugSymbolSuffix = defaultString(c.Collect.DebugSymbolSuffix, defaultDebugSymbolSuffix)
	c.Collect.JunkFiles = trimList(c.Collect.JunkFiles)
}

func (c *Config) normalizeScopes() error {
	for i := range c.Scopes {
		scope := &c.Scopes[i]
		scope.Name = strings.TrimSpace(scope.Name)
		scope.OutputSuffix = strings.TrimSpace(scope.OutputSuffix)
		scope.ZipPatterns = trimList(scope.ZipPatterns)
		scope.DirPatterns = trimList(scope.DirPatterns)
		platforms := trimList(scope.Platforms)
		for j := range platforms {
			platforms[j] = strings.ToLower(platforms[j])
		}
		scope.Platforms = platforms
		if strings.TrimSpace(scope.StagingDir) == "" {
			continue
		}
		staging, err := resolveAgainst(c.Paths.WorkDir, scope.StagingDir)
		if err != nil {
			return fmt.Errorf("scopes[%d].staging_dir: %w", i, err)
		}
		scope.StagingDir = staging
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if !c.History.Enabled {
		return nil
	}
	var err error
	if c.History.Path, err = resolveAgainst(c.Paths.WorkDir, defaultString(c.History.Path, defaultHistoryPath)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
