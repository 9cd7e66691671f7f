package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories and files the pipeline reads and writes.
type Paths struct {
	// WorkDir holds CI artifacts (zips and directories) and the staging
	// directories. Every other relative path is resolved against it.
	WorkDir string `toml:"work_dir"`
	// SourceRoot contains one directory per plugin with its version descriptor.
	SourceRoot string `toml:"source_root"`
	// BuildConfig is the top-level CMakeLists.txt listing plugin subdirectories.
	BuildConfig string `toml:"build_config"`
	// OutputDir receives archive directories and zips. Empty means next to the
	// bundle inside the staging directory.
	OutputDir string `toml:"output_dir"`
	// LogDir, when set, receives plugpack.log in addition to stderr.
	LogDir string `toml:"log_dir"`
}

// Versioning describes where version descriptors live and which markers hold
// the version components.
type Versioning struct {
	DescriptorPath string `toml:"descriptor_path"`
	MajorKey       string `toml:"major_key"`
	MinorKey       string `toml:"minor_key"`
	PatchKey       string `toml:"patch_key"`
}

// Manual contains configuration for plugin manuals.
type Manual struct {
	Root              string `toml:"root"`
	Aliases           string `toml:"aliases"`
	DocumentationPath string `toml:"documentation_path"`
}

// Presets contains configuration for optional preset directories.
type Presets struct {
	Root   string `toml:"root"`
	Vendor string `toml:"vendor"`
}

// Collect contains configuration for artifact cleanup after merging.
type Collect struct {
	DebugSymbolSuffix string   `toml:"debug_symbol_suffix"`
	JunkFiles         []string `toml:"junk_files"`
}

// Scope describes one pipeline run over a platform set.
type Scope struct {
	Name         string   `toml:"name"`
	StagingDir   string   `toml:"staging_dir"`
	ZipPatterns  []string `toml:"zip_patterns"`
	DirPatterns  []string `toml:"dir_patterns"`
	Platforms    []string `toml:"platforms"`
	OutputSuffix string   `toml:"output_suffix"`
	StripJunk    bool     `toml:"strip_junk"`
}

// History contains configuration for the archive ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for plugpack.
//
// Configuration sections by subsystem:
//   - Paths: work directory, source tree, build configuration, output
//   - Versioning: version descriptor location and marker names
//   - Manual: manual root, alias map, documentation path inside bundles
//   - Presets: preset root and vendor folder
//   - Collect: junk and debug symbol cleanup
//   - Scopes: ordered pipeline runs (macOS-only, full)
//   - History: SQLite ledger of produced archives
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Versioning Versioning `toml:"versioning"`
	Manual     Manual     `toml:"manual"`
	Presets    Presets    `toml:"presets"`
	Collect    Collect    `toml:"collect"`
	Scopes     []Scope    `toml:"scopes"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/plugpack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A file that declares [[scopes]] replaces the default scope list.
		cfg.Scopes = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Scopes) == 0 {
			cfg.Scopes = defaultScopes()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("plugpack.toml")
	if err != nil {
		return "", false, err
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// EnsureDirectories creates the directories plugpack writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir}
	if c.Paths.OutputDir != "" {
		dirs = append(dirs, c.Paths.OutputDir)
	}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Scope returns the scope with the given name, compared case-insensitively.
func (c *Config) Scope(name string) (Scope, bool) {
	for _, scope := range c.Scopes {
		if strings.EqualFold(scope.Name, strings.TrimSpace(name)) {
			return scope, true
		}
	}
	return Scope{}, false
}

// ScopeNames lists configured scope names in run order.
func (c *Config) ScopeNames() []string {
	names := make([]string, 0, len(c.Scopes))
	for _, scope := range c.Scopes {
		names = append(names, scope.Name)
	}
	return names
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// resolveAgainst expands pathValue and anchors relative results at base
// instead of the process working directory.
func resolveAgainst(base, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") || filepath.IsAbs(pathValue) {
		return expandPath(pathValue)
	}
	return filepath.Clean(filepath.Join(base, pathValue)), nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
