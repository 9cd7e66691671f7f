package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plugpack/internal/config"
	"plugpack/internal/staging"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "CMakeLists.txt")
	if err := os.WriteFile(f, []byte("add_subdirectory(FooSynth)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileReadable("build", f); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckFileReadable("build", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckFileReadable("build", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckOptionalDirectory(t *testing.T) {
	result := CheckOptionalDirectory("presets", filepath.Join(t.TempDir(), "presets"))
	if !result.Passed || !result.Optional {
		t.Fatalf("expected optional pass for absent dir, got %+v", result)
	}
}

func TestCheckAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manual.json")
	if result := CheckAliases("aliases", path); !result.Passed {
		t.Fatalf("absent alias file should pass: %s", result.Detail)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckAliases("aliases", path); result.Passed {
		t.Fatal("expected failure for malformed alias file")
	}
}

func TestCheckStagingFree(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pack")
	if result := CheckStagingFree("staging", dir); !result.Passed {
		t.Fatalf("expected free staging, got: %s", result.Detail)
	}
	lock, err := staging.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()
	if result := CheckStagingFree("staging", dir); result.Passed {
		t.Fatal("expected failure while locked")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyLayout(t *testing.T) {
	repo := t.TempDir()
	work := filepath.Join(repo, "package")
	for _, dir := range []string{work, filepath.Join(repo, "docs", "manual")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(repo, "CMakeLists.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Paths.WorkDir = work
	cfg.Paths.SourceRoot = repo
	cfg.Paths.BuildConfig = filepath.Join(repo, "CMakeLists.txt")
	cfg.Manual.Root = filepath.Join(repo, "docs", "manual")
	cfg.Manual.Aliases = filepath.Join(work, "manual.json")
	cfg.Presets.Root = filepath.Join(repo, "presets")
	for i := range cfg.Scopes {
		cfg.Scopes[i].StagingDir = filepath.Join(work, cfg.Scopes[i].StagingDir)
	}

	results := RunAll(context.Background(), &cfg)
	// work, build config, source, manual, aliases, presets, two staging locks
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}
}

func TestRunForPackToleratesMissingInputs(t *testing.T) {
	repo := t.TempDir()
	work := filepath.Join(repo, "package")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repo, "CMakeLists.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Paths.WorkDir = work
	cfg.Paths.SourceRoot = filepath.Join(repo, "plugins")
	cfg.Paths.BuildConfig = filepath.Join(repo, "CMakeLists.txt")
	cfg.Manual.Root = filepath.Join(repo, "docs", "manual")
	cfg.Manual.Aliases = filepath.Join(work, "manual.json")
	cfg.Presets.Root = filepath.Join(repo, "presets")
	for i := range cfg.Scopes {
		cfg.Scopes[i].StagingDir = filepath.Join(work, cfg.Scopes[i].StagingDir)
	}

	if err := Err(RunForPack(context.Background(), &cfg)); err != nil {
		t.Fatalf("expected packaging checks to pass without manual and source roots: %v", err)
	}
	failed := Failed(RunAll(context.Background(), &cfg))
	if len(failed) != 2 || failed[0].Name != "Source root" || failed[1].Name != "Manual root" {
		t.Fatalf("expected strict checks to flag source and manual roots, got %+v", failed)
	}
}

func TestErrSummarizesFailures(t *testing.T) {
	results := []Result{
		{Name: "Work directory", Passed: true},
		{Name: "Manual root", Detail: "/nope (error: does not exist)"},
	}
	err := Err(results)
	if err == nil || !strings.Contains(err.Error(), "Manual root") {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(Failed(results)) != 1 {
		t.Fatal("expected one failed result")
	}
}
