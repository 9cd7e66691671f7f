package bundle

import (
	"fmt"
	"os"
	"path/filepath"
)

// MissingBinaryError reports a required platform binary absent from a bundle.
// It is the release gate: a pipeline that sees it stops immediately.
type MissingBinaryError struct {
	Plugin   string
	Platform Platform
	Path     string
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("%s: required %s binary %s does not exist", e.Plugin, e.Platform, e.Path)
}

// Validate checks that every required platform binary is a regular file. The
// first missing binary is returned as a *MissingBinaryError.
func Validate(b Bundle, required []Platform) error {
	for _, platform := range required {
		path := filepath.Join(b.Path, platform.BinaryPath(b.Name))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return &MissingBinaryError{Plugin: b.Name, Platform: platform, Path: path}
		}
	}
	return nil
}
