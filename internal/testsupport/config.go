package testsupport

import (
	"path/filepath"
	"testing"

	"plugpack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces an absolute-path config rooted in a fresh temp directory
// laid out like a plugin repository:
//
//	<base>/repo/CMakeLists.txt
//	<base>/repo/<Plugin>/source/version.hpp
//	<base>/repo/docs/manual/<Manual>
//	<base>/repo/presets/Uhhyou/<Plugin>
//	<base>/repo/package            (work dir, staging dirs, manual.json)
//
// History is disabled unless WithHistory is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	repo := filepath.Join(base, "repo")
	work := filepath.Join(repo, "package")

	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = work
	cfgVal.Paths.SourceRoot = repo
	cfgVal.Paths.BuildConfig = filepath.Join(repo, "CMakeLists.txt")
	cfgVal.Manual.Root = filepath.Join(repo, "docs", "manual")
	cfgVal.Manual.Aliases = filepath.Join(work, "manual.json")
	cfgVal.Presets.Root = filepath.Join(repo, "presets")
	cfgVal.History.Enabled = false
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	for i := range cfgVal.Scopes {
		cfgVal.Scopes[i].StagingDir = filepath.Join(work, cfgVal.Scopes[i].StagingDir)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithHistory enables the archive ledger.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithOutputDir sends archives to a dedicated directory instead of staging.
func WithOutputDir(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.OutputDir = filepath.Join(b.baseDir, name)
	}
}
