package staging

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireIsExclusive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pack")

	first, err := Acquire(dir)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if first.Path() != dir+".lock" {
		t.Fatalf("lock path = %q", first.Path())
	}

	if _, err := Acquire(dir); !errors.Is(err, ErrStagingLocked) {
		t.Fatalf("expected ErrStagingLocked, got %v", err)
	}
	locked, err := Locked(dir)
	if err != nil || !locked {
		t.Fatalf("Locked = %v, %v; want true", locked, err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer second.Release()
}

func TestLockedWithoutLockFile(t *testing.T) {
	locked, err := Locked(filepath.Join(t.TempDir(), "pack"))
	if err != nil || locked {
		t.Fatalf("Locked = %v, %v; want false", locked, err)
	}
}

func TestReleaseNilLock(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil lock: %v", err)
	}
}
