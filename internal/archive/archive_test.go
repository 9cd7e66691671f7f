package archive_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"plugpack/internal/archive"
	"plugpack/internal/bundle"
	"plugpack/internal/logging"
	"plugpack/internal/testsupport"
)

func stageBundle(t *testing.T, staging, plugin string) bundle.Bundle {
	t.Helper()
	path := testsupport.MakeBundle(t, staging, plugin, testsupport.AllPlatforms...)
	return bundle.Bundle{Path: path, Name: plugin}
}

func TestArchiveMovesBundleAndWritesZip(t *testing.T) {
	base := t.TempDir()
	staging := filepath.Join(base, "pack")
	presets := filepath.Join(base, "presets")
	testsupport.WriteText(t, filepath.Join(presets, "Uhhyou", "FooSynth", "Init.vstpreset"), "preset")

	b := stageBundle(t, staging, "FooSynth")
	req := archive.Request{
		Dir:         filepath.Join(staging, "FooSynth_1.2.3"),
		Bundle:      b,
		PresetsRoot: presets,
		Vendor:      "Uhhyou",
	}
	result, err := archive.New(logging.NewNop()).Archive(context.Background(), req)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	if _, err := os.Stat(b.Path); !os.IsNotExist(err) {
		t.Fatalf("expected bundle moved out of staging, stat err=%v", err)
	}
	if result.ZipPath != filepath.Join(staging, "FooSynth_1.2.3.zip") {
		t.Fatalf("unexpected zip path %q", result.ZipPath)
	}
	if !result.Presets {
		t.Fatal("expected presets to be copied")
	}

	names := testsupport.ZipNames(t, result.ZipPath)
	want := []string{
		"FooSynth.vst3/",
		"FooSynth.vst3/Contents/",
		"FooSynth.vst3/Contents/MacOS/",
		"FooSynth.vst3/Contents/MacOS/FooSynth",
		"FooSynth.vst3/Contents/Resources/",
		"FooSynth.vst3/Contents/Resources/moduleinfo.json",
		"FooSynth.vst3/Contents/x86_64-linux/",
		"FooSynth.vst3/Contents/x86_64-linux/FooSynth.so",
		"FooSynth.vst3/Contents/x86_64-win/",
		"FooSynth.vst3/Contents/x86_64-win/FooSynth.vst3",
		"presets/",
		"presets/Uhhyou/",
		"presets/Uhhyou/FooSynth/",
		"presets/Uhhyou/FooSynth/Init.vstpreset",
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("zip entries = %v, want %v", names, want)
	}

	data, err := os.ReadFile(result.ZipPath)
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	digest := sha256.Sum256(data)
	if result.SHA256 != hex.EncodeToString(digest[:]) {
		t.Fatal("reported digest does not match zip content")
	}
	if result.Size != int64(len(data)) {
		t.Fatalf("size = %d, want %d", result.Size, len(data))
	}
}

func TestArchiveWithoutPresets(t *testing.T) {
	base := t.TempDir()
	staging := filepath.Join(base, "pack")
	b := stageBundle(t, staging, "BarVerb")

	result, err := archive.New(logging.NewNop()).Archive(context.Background(), archive.Request{
		Dir:         filepath.Join(staging, "BarVerb_0.1.0"),
		Bundle:      b,
		PresetsRoot: filepath.Join(base, "presets"),
		Vendor:      "Uhhyou",
	})
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if result.Presets {
		t.Fatal("expected no presets")
	}
	for _, name := range testsupport.ZipNames(t, result.ZipPath) {
		if name == "presets/" {
			t.Fatal("zip must not contain a presets directory")
		}
	}
}

func TestArchiveReplacesPreviousRelease(t *testing.T) {
	base := t.TempDir()
	staging := filepath.Join(base, "pack")
	dir := filepath.Join(staging, "FooSynth_1.0.0")
	testsupport.WriteText(t, filepath.Join(dir, "FooSynth.vst3", "stale.txt"), "old")
	testsupport.WriteText(t, dir+".zip", "not a zip")

	b := stageBundle(t, staging, "FooSynth")
	result, err := archive.New(logging.NewNop()).Archive(context.Background(), archive.Request{Dir: dir, Bundle: b})
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(result.BundlePath, "stale.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected stale bundle replaced, stat err=%v", err)
	}
	names := testsupport.ZipNames(t, result.ZipPath)
	if len(names) == 0 || names[0] != "FooSynth.vst3/" {
		t.Fatalf("unexpected zip entries %v", names)
	}
}

func TestArchiveRequiresDirectory(t *testing.T) {
	if _, err := archive.New(logging.NewNop()).Archive(context.Background(), archive.Request{}); err == nil {
		t.Fatal("expected error without archive directory")
	}
}
