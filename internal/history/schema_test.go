package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenPathRejectsForeignRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if _, err := store.exec(context.Background(), "PRAGMA user_version = 7"); err != nil {
		t.Fatalf("bump revision: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := OpenPath(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestBusyDetection(t *testing.T) {
	if busy(nil) {
		t.Fatal("nil error must not be busy")
	}
	if !busy(errors.New("exec: database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected locked database to be busy")
	}
	if busy(errors.New("no such table: archives")) {
		t.Fatal("unexpected busy for schema error")
	}

	calls := 0
	err := withBusyRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("withBusyRetry = %v after %d calls", err, calls)
	}
}
