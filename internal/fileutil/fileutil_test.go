package fileutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerifiedAppliesMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, "verified copy content")
	writeFile(t, dst, "stale and longer than the new content")

	if err := copyFile(src, dst, 0o755, true); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "verified copy content" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("expected executable bits, got %o", info.Mode().Perm())
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := copyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), 0o644, true); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyTreeRecreatesSymlinks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "Versions", "A", "Foo"), "bin")
	if err := os.Symlink("Versions/A/Foo", filepath.Join(src, "Foo")); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(dst, "Foo"), "stale file in the way")

	if err := CopyTree(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}
	link, err := os.Readlink(filepath.Join(dst, "Foo"))
	if err != nil {
		t.Fatalf("expected symlink: %v", err)
	}
	if link != "Versions/A/Foo" {
		t.Fatalf("link target = %q", link)
	}
}

func TestCopyTreeMergesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeFile(t, filepath.Join(src, "a.txt"), "new a")
	writeFile(t, filepath.Join(src, "nested", "b.txt"), "b")
	writeFile(t, filepath.Join(dst, "a.txt"), "old a")
	writeFile(t, filepath.Join(dst, "keep.txt"), "keep")

	if err := CopyTree(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}

	for path, want := range map[string]string{
		"a.txt":        "new a",
		"nested/b.txt": "b",
		"keep.txt":     "keep",
	} {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(path)))
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(got) != want {
			t.Fatalf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestCopyTreePreservesExecutableBit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "bin"), "#!/bin/sh")
	if err := os.Chmod(filepath.Join(src, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "dst")
	if err := CopyTree(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dst, "bin"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("expected executable bits, got %o", info.Mode().Perm())
	}
}

func TestCopyTreeRejectsFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "file")
	writeFile(t, src, "x")
	if err := CopyTree(context.Background(), src, filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error when source is a file")
	}
}

func TestCopyTreeHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := CopyTree(ctx, src, filepath.Join(dir, "dst")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMoveDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Foo.vst3")
	writeFile(t, filepath.Join(src, "Contents", "MacOS", "Foo"), "bin")
	dst := filepath.Join(dir, "out", "Foo.vst3")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := MoveDir(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}
	if IsDir(src) {
		t.Fatal("source should be gone after move")
	}
	if !IsRegular(filepath.Join(dst, "Contents", "MacOS", "Foo")) {
		t.Fatal("expected moved binary")
	}
}

func TestMoveDirRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dst := filepath.Join(dir, "b")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := MoveDir(context.Background(), src, dst); err == nil {
		t.Fatal("expected error for existing destination")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
