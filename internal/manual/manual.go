// Package manual locates plugin manuals and copies them into bundles.
//
// Manuals live under a shared root, one folder per plugin. A folder is named
// after the plugin unless manual.json maps the plugin to another folder name,
// e.g. {"FooSynth": "Foo Synth"}. Names are compared in Unicode NFC so that
// folders checked out on macOS (which stores decomposed names) still match.
package manual

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"plugpack/internal/bundle"
	"plugpack/internal/config"
	"plugpack/internal/fileutil"
	"plugpack/internal/logging"
)

// Aliases maps plugin names to manual folder names.
type Aliases map[string]string

// LoadAliases reads a JSON object of plugin name to folder name. A missing
// file yields an empty table.
func LoadAliases(path string) (Aliases, error) {
	aliases := Aliases{}
	if path == "" {
		return aliases, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return aliases, nil
		}
		return nil, fmt.Errorf("read manual aliases: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manual aliases %s: %w", path, err)
	}
	for plugin, folder := range raw {
		aliases[norm.NFC.String(plugin)] = norm.NFC.String(folder)
	}
	return aliases, nil
}

// Folder returns the manual folder name for plugin.
func (a Aliases) Folder(plugin string) string {
	key := norm.NFC.String(plugin)
	if folder, ok := a[key]; ok && folder != "" {
		return folder
	}
	return key
}

// Options configures a Library.
type Options struct {
	Root              string
	DocumentationPath string
}

// Library resolves and attaches manuals.
type Library struct {
	opts    Options
	aliases Aliases
	logger  *slog.Logger
}

// NewLibrary constructs a library over an alias table.
func NewLibrary(opts Options, aliases Aliases, logger *slog.Logger) *Library {
	if aliases == nil {
		aliases = Aliases{}
	}
	return &Library{opts: opts, aliases: aliases, logger: logging.NewComponentLogger(logger, "manual")}
}

// Open loads the configured alias table and returns a library.
func Open(cfg *config.Config, logger *slog.Logger) (*Library, error) {
	aliases, err := LoadAliases(cfg.Manual.Aliases)
	if err != nil {
		return nil, err
	}
	return NewLibrary(Options{
		Root:              cfg.Manual.Root,
		DocumentationPath: cfg.Manual.DocumentationPath,
	}, aliases, logger), nil
}

// Resolve returns the manual directory for plugin and whether it exists.
func (l *Library) Resolve(plugin string) (string, bool) {
	folder := l.aliases.Folder(plugin)
	dir := filepath.Join(l.opts.Root, folder)
	if fileutil.IsDir(dir) {
		return dir, true
	}

	entries, err := os.ReadDir(l.opts.Root)
	if err != nil {
		return dir, false
	}
	for _, entry := range entries {
		if entry.IsDir() && norm.NFC.String(entry.Name()) == folder {
			return filepath.Join(l.opts.Root, entry.Name()), true
		}
	}
	return dir, false
}

// Destination returns the documentation directory inside b.
func (l *Library) Destination(b bundle.Bundle) string {
	return filepath.Join(b.Path, l.opts.DocumentationPath)
}

// Attach merges the manual at dir into the bundle's documentation directory,
// which is created even when the manual has disappeared since Resolve.
func (l *Library) Attach(ctx context.Context, b bundle.Bundle, dir string) error {
	dest := l.Destination(b)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create documentation directory: %w", err)
	}
	if !fileutil.IsDir(dir) {
		logging.WithContext(ctx, l.logger).Warn("manual directory vanished before copy",
			logging.String("manual", dir),
			logging.String(logging.FieldEventType, "manual_vanished"),
			logging.String(logging.FieldImpact, "bundle is archived without documentation"),
		)
		return nil
	}
	if err := fileutil.CopyTree(ctx, dir, dest); err != nil {
		return fmt.Errorf("copy manual for %s: %w", b.Name, err)
	}
	return nil
}
