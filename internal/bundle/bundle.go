// Package bundle discovers VST3 plugin bundles in a staging directory and
// checks that each one carries the platform binaries a release requires.
//
// A bundle is a directory named "<Plugin>.vst3" with a fixed internal layout:
//
//	Contents/x86_64-win/<Plugin>.vst3   Windows x86-64
//	Contents/x86_64-linux/<Plugin>.so   Linux x86-64
//	Contents/MacOS/<Plugin>             macOS universal
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Suffix is the directory suffix that marks a plugin bundle.
const Suffix = ".vst3"

// Platform identifies one binary slot inside a bundle.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformMacOS   Platform = "macos"
)

// ParsePlatform validates a platform name.
func ParsePlatform(name string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(name))); p {
	case PlatformWindows, PlatformLinux, PlatformMacOS:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported platform %q", name)
	}
}

// BinaryPath returns the bundle-relative path of the platform binary for plugin.
func (p Platform) BinaryPath(plugin string) string {
	switch p {
	case PlatformWindows:
		return filepath.Join("Contents", "x86_64-win", plugin+".vst3")
	case PlatformLinux:
		return filepath.Join("Contents", "x86_64-linux", plugin+".so")
	case PlatformMacOS:
		return filepath.Join("Contents", "MacOS", plugin)
	default:
		return ""
	}
}

// Bundle is one plugin bundle on disk.
type Bundle struct {
	// Path is the absolute path to the bundle directory.
	Path string
	// Name is the plugin name (directory name without Suffix).
	Name string
}

// DirName returns the bundle's directory name.
func (b Bundle) DirName() string {
	return filepath.Base(b.Path)
}

// Discover lists the bundles directly under dir, sorted by name. A missing
// directory yields no bundles.
func Discover(dir string) ([]Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read staging directory: %w", err)
	}

	var bundles []Bundle
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), Suffix)
		if name == "" {
			continue
		}
		bundles = append(bundles, Bundle{Path: filepath.Join(dir, entry.Name()), Name: name})
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, nil
}
