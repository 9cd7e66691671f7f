package bundle_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"plugpack/internal/bundle"
	"plugpack/internal/testsupport"
)

func TestDiscoverListsBundlesSorted(t *testing.T) {
	dir := t.TempDir()
	testsupport.MakeBundle(t, dir, "ZetaComb", testsupport.PlatformMacOS)
	testsupport.MakeBundle(t, dir, "FooSynth", testsupport.PlatformMacOS)
	testsupport.WriteText(t, filepath.Join(dir, "Stray.vst3"), "not a directory")
	if err := os.MkdirAll(filepath.Join(dir, "FooSynth_1.0.0"), 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.MakeBundle(t, filepath.Join(dir, "nested"), "Deep", testsupport.PlatformMacOS)

	bundles, err := bundle.Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(bundles) != 2 {
		t.Fatalf("bundles = %+v", bundles)
	}
	if bundles[0].Name != "FooSynth" || bundles[1].Name != "ZetaComb" {
		t.Fatalf("unexpected order: %+v", bundles)
	}
	if bundles[0].DirName() != "FooSynth.vst3" {
		t.Fatalf("DirName = %q", bundles[0].DirName())
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	bundles, err := bundle.Discover(filepath.Join(t.TempDir(), "absent"))
	if err != nil || bundles != nil {
		t.Fatalf("Discover(absent) = %v, %v", bundles, err)
	}
}

func TestValidateAllPlatforms(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.MakeBundle(t, dir, "FooSynth", testsupport.AllPlatforms...)
	b := bundle.Bundle{Path: path, Name: "FooSynth"}

	required := []bundle.Platform{bundle.PlatformWindows, bundle.PlatformLinux, bundle.PlatformMacOS}
	if err := bundle.Validate(b, required); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateMissingLinuxBinary(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.MakeBundle(t, dir, "FooSynth", testsupport.PlatformWindows, testsupport.PlatformMacOS)
	b := bundle.Bundle{Path: path, Name: "FooSynth"}

	err := bundle.Validate(b, []bundle.Platform{bundle.PlatformWindows, bundle.PlatformLinux, bundle.PlatformMacOS})
	var missing *bundle.MissingBinaryError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingBinaryError, got %v", err)
	}
	want := filepath.Join(path, "Contents", "x86_64-linux", "FooSynth.so")
	if missing.Path != want || missing.Platform != bundle.PlatformLinux {
		t.Fatalf("unexpected error: %+v", missing)
	}
}

func TestValidateMacOSOnlyIgnoresOtherPlatforms(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.MakeBundle(t, dir, "FooSynth", testsupport.PlatformMacOS)
	if err := bundle.Validate(bundle.Bundle{Path: path, Name: "FooSynth"}, []bundle.Platform{bundle.PlatformMacOS}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsDirectoryInBinarySlot(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.MakeBundle(t, dir, "FooSynth")
	if err := os.MkdirAll(filepath.Join(path, "Contents", "MacOS", "FooSynth"), 0o755); err != nil {
		t.Fatal(err)
	}
	err := bundle.Validate(bundle.Bundle{Path: path, Name: "FooSynth"}, []bundle.Platform{bundle.PlatformMacOS})
	var missing *bundle.MissingBinaryError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingBinaryError, got %v", err)
	}
}

func TestParsePlatform(t *testing.T) {
	if p, err := bundle.ParsePlatform(" MacOS "); err != nil || p != bundle.PlatformMacOS {
		t.Fatalf("ParsePlatform = %q, %v", p, err)
	}
	if _, err := bundle.ParsePlatform("beos"); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}
