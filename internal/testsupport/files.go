package testsupport

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteBuildConfig writes <root>/CMakeLists.txt declaring each subdirectory.
func WriteBuildConfig(t testing.TB, root string, subdirs ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("cmake_minimum_required(VERSION 3.20)\n")
	for _, dir := range subdirs {
		fmt.Fprintf(&b, "add_subdirectory(%s)\n", dir)
	}
	WriteText(t, filepath.Join(root, "CMakeLists.txt"), b.String())
}

// WriteVersionHeader writes <root>/<plugin>/source/version.hpp.
func WriteVersionHeader(t testing.TB, root, plugin string, major, minor, patch int) {
	t.Helper()
	content := fmt.Sprintf(`#pragma once

#define MAJOR_VERSION_INT %d
#define SUB_VERSION_INT %d
#define RELEASE_NUMBER_INT %d
`, major, minor, patch)
	WriteText(t, filepath.Join(root, plugin, "source", "version.hpp"), content)
}

// Platform binaries a CI build drops into a bundle.
const (
	PlatformWindows = "windows"
	PlatformLinux   = "linux"
	PlatformMacOS   = "macos"
)

// AllPlatforms lists every platform binary of a full build.
var AllPlatforms = []string{PlatformWindows, PlatformLinux, PlatformMacOS}

// BinaryPath returns the bundle-relative binary path for a platform.
func BinaryPath(platform, plugin string) string {
	switch platform {
	case PlatformWindows:
		return filepath.Join("Contents", "x86_64-win", plugin+".vst3")
	case PlatformLinux:
		return filepath.Join("Contents", "x86_64-linux", plugin+".so")
	case PlatformMacOS:
		return filepath.Join("Contents", "MacOS", plugin)
	}
	panic("unknown platform " + platform)
}

// MakeBundle creates <dir>/<plugin>.vst3 with binaries for the given platforms
// and returns its path.
func MakeBundle(t testing.TB, dir, plugin string, platforms ...string) string {
	t.Helper()
	bundle := filepath.Join(dir, plugin+".vst3")
	WriteText(t, filepath.Join(bundle, "Contents", "Resources", "moduleinfo.json"), `{"Name": "`+plugin+`"}`)
	for _, platform := range platforms {
		WriteText(t, filepath.Join(bundle, BinaryPath(platform, plugin)), platform+" binary")
	}
	return bundle
}

// WriteManual creates a manual folder with an index page and an image.
func WriteManual(t testing.TB, manualRoot, folder string) string {
	t.Helper()
	dir := filepath.Join(manualRoot, folder)
	WriteText(t, filepath.Join(dir, "index.html"), "<h1>"+folder+"</h1>")
	WriteText(t, filepath.Join(dir, "img", "panel.svg"), "<svg/>")
	return dir
}

// WriteZip writes a zip archive holding the given slash-separated entries.
// Entries ending in "/" become directories.
func WriteZip(t testing.TB, path string, entries map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
}

// ZipNames returns the sorted entry names of a zip archive.
func ZipNames(t testing.TB, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// ListFiles returns the sorted slash-separated relative paths of regular
// files under root.
func ListFiles(t testing.TB, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	sort.Strings(files)
	return files
}
