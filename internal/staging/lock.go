package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrStagingLocked is returned when another run holds the staging lock.
var ErrStagingLocked = errors.New("staging directory is in use by another run")

// Lock is an exclusive hold on one staging directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file guarding stagingDir.
func LockPath(stagingDir string) string {
	return strings.TrimRight(filepath.Clean(stagingDir), string(filepath.Separator)) + ".lock"
}

// Acquire takes the staging lock without blocking. It fails with
// ErrStagingLocked when another process holds it.
func Acquire(stagingDir string) (*Lock, error) {
	path := LockPath(stagingDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStagingLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. The lock file stays on disk.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

// Locked reports whether some process currently holds the lock on stagingDir.
func Locked(stagingDir string) (bool, error) {
	path := LockPath(stagingDir)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return false, err
	}
	if ok {
		_ = fl.Unlock()
		return false, nil
	}
	return true, nil
}
