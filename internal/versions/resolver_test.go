package versions_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"plugpack/internal/logging"
	"plugpack/internal/testsupport"
	"plugpack/internal/versions"
)

func newResolver(root string) *versions.Resolver {
	return versions.NewResolver(versions.Options{
		BuildConfig:    filepath.Join(root, "CMakeLists.txt"),
		SourceRoot:     root,
		DescriptorPath: filepath.Join("source", "version.hpp"),
		Keys: versions.Keys{
			Major: "MAJOR_VERSION_INT",
			Minor: "SUB_VERSION_INT",
			Patch: "RELEASE_NUMBER_INT",
		},
	}, logging.NewNop())
}

func TestResolveBuildsTable(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteBuildConfig(t, root, "common", "FooSynth", "BarDelay")
	testsupport.WriteVersionHeader(t, root, "FooSynth", 1, 2, 3)
	testsupport.WriteVersionHeader(t, root, "BarDelay", 0, 4, 10)

	result, err := newResolver(root).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := result.Table.Names(); len(got) != 2 || got[0] != "FooSynth" || got[1] != "BarDelay" {
		t.Fatalf("names = %v", got)
	}
	if v, _ := result.Table.Lookup("FooSynth"); v.String() != "1.2.3" {
		t.Fatalf("FooSynth = %q, want 1.2.3", v)
	}
	if v, _ := result.Table.Lookup("BarDelay"); v.String() != "0.4.10" {
		t.Fatalf("BarDelay = %q, want 0.4.10", v)
	}
	if len(result.Missing) != 0 || len(result.Duplicates) != 0 {
		t.Fatalf("unexpected report: %+v", result)
	}
}

func TestResolveSkipsMissingDescriptor(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteBuildConfig(t, root, "Ghost", "FooSynth")
	testsupport.WriteVersionHeader(t, root, "FooSynth", 1, 0, 0)

	result, err := newResolver(root).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := result.Table.Lookup("Ghost"); ok {
		t.Fatal("Ghost should be excluded")
	}
	if result.Table.Len() != 1 {
		t.Fatalf("expected FooSynth to still resolve, got %v", result.Table.Names())
	}
	if len(result.Missing) != 1 || result.Missing[0].Plugin != "Ghost" {
		t.Fatalf("missing = %+v", result.Missing)
	}
	want := filepath.Join(root, "Ghost", "source", "version.hpp")
	if result.Missing[0].Path != want {
		t.Fatalf("missing path = %q, want %q", result.Missing[0].Path, want)
	}
}

func TestResolveReportsDuplicates(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteBuildConfig(t, root, "FooSynth", "BarDelay", "FooSynth")
	testsupport.WriteVersionHeader(t, root, "FooSynth", 1, 0, 0)
	testsupport.WriteVersionHeader(t, root, "BarDelay", 1, 0, 0)

	result, err := newResolver(root).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(result.Duplicates) != 1 {
		t.Fatalf("duplicates = %+v", result.Duplicates)
	}
	dup := result.Duplicates[0]
	if dup.Plugin != "FooSynth" || len(dup.Lines) != 2 {
		t.Fatalf("duplicate = %+v", dup)
	}
	if got := result.Table.Names(); len(got) != 2 || got[0] != "FooSynth" {
		t.Fatalf("names = %v", got)
	}
}

func TestResolveFailsOnMissingMarker(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteBuildConfig(t, root, "FooSynth")
	header := filepath.Join(root, "FooSynth", "source", "version.hpp")
	testsupport.WriteText(t, header, "#define MAJOR_VERSION_INT 1\n#define SUB_VERSION_INT 2\n")

	_, err := newResolver(root).Resolve(context.Background())
	var missing *versions.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Plugin != "FooSynth" || missing.Field != "RELEASE_NUMBER_INT" || missing.Path != header {
		t.Fatalf("unexpected error details: %+v", missing)
	}
}

func TestResolveFailsOnMalformedMarker(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteBuildConfig(t, root, "FooSynth")
	testsupport.WriteText(t, filepath.Join(root, "FooSynth", "source", "version.hpp"),
		"#define MAJOR_VERSION_INT one\n#define SUB_VERSION_INT 2\n#define RELEASE_NUMBER_INT 3\n")

	_, err := newResolver(root).Resolve(context.Background())
	var malformed *versions.MalformedFieldError
	if !errors.As(err, &malformed) || malformed.Plugin != "FooSynth" {
		t.Fatalf("expected MalformedFieldError for FooSynth, got %v", err)
	}
}

func TestResolveMissingBuildConfig(t *testing.T) {
	_, err := newResolver(t.TempDir()).Resolve(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
