package preflight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plugpack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every preflight check for the given config. The manual
// root and source root are required here; see RunForPack for the relaxed set.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	return runChecks(ctx, cfg, CheckDirectoryReadable)
}

// RunForPack executes the checks a packaging run enforces. A missing manual
// root or source root only means plugins are skipped (no manual, no version),
// so both are optional.
func RunForPack(ctx context.Context, cfg *config.Config) []Result {
	return runChecks(ctx, cfg, CheckOptionalDirectory)
}

func runChecks(ctx context.Context, cfg *config.Config, checkInputDir func(name, path string) Result) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckFileReadable("Build configuration", cfg.Paths.BuildConfig),
		checkInputDir("Source root", cfg.Paths.SourceRoot),
		checkInputDir("Manual root", cfg.Manual.Root),
		CheckAliases("Manual aliases", cfg.Manual.Aliases),
	}
	if cfg.Presets.Root != "" {
		results = append(results, CheckOptionalDirectory("Presets root", cfg.Presets.Root))
	}
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	for _, scope := range cfg.Scopes {
		if ctx.Err() != nil {
			break
		}
		results = append(results, CheckStagingFree("Staging ("+scope.Name+")", scope.StagingDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err summarizes failed results as one error, or returns nil.
func Err(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return errors.New("preflight failed: " + strings.Join(parts, "; "))
}
