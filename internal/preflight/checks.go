package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"plugpack/internal/manual"
	"plugpack/internal/staging"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckFileReadable verifies that path is a readable regular file.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckOptionalDirectory passes when the directory is absent and otherwise
// requires it to be readable.
func CheckOptionalDirectory(name, path string) Result {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Optional: true, Detail: fmt.Sprintf("%s (absent, optional)", path)}
	}
	result := CheckDirectoryReadable(name, path)
	result.Optional = true
	return result
}

// CheckAliases verifies that the manual alias file, when present, parses.
func CheckAliases(name, path string) Result {
	aliases, err := manual.LoadAliases(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return Result{Name: name, Passed: true, Optional: true, Detail: fmt.Sprintf("%s (absent, optional)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d aliases)", path, len(aliases))}
}

// CheckStagingFree verifies that no other run holds the staging lock.
func CheckStagingFree(name, stagingDir string) Result {
	locked, err := staging.Locked(stagingDir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", stagingDir, err)}
	}
	if locked {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: locked by another run)", stagingDir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (free)", stagingDir)}
}
