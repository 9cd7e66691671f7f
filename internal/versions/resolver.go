package versions

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"plugpack/internal/config"
	"plugpack/internal/logging"
)

// Options locates the build configuration and version descriptors.
type Options struct {
	BuildConfig    string
	SourceRoot     string
	DescriptorPath string
	Keys           Keys
}

// OptionsFromConfig derives resolver options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BuildConfig:    cfg.Paths.BuildConfig,
		SourceRoot:     cfg.Paths.SourceRoot,
		DescriptorPath: cfg.Versioning.DescriptorPath,
		Keys: Keys{
			Major: cfg.Versioning.MajorKey,
			Minor: cfg.Versioning.MinorKey,
			Patch: cfg.Versioning.PatchKey,
		},
	}
}

// MissingDescriptor records a declared plugin without a version descriptor.
type MissingDescriptor struct {
	Plugin string
	Path   string
}

// Duplicate records a plugin declared more than once.
type Duplicate struct {
	Plugin string
	Lines  []int
}

// Result is the outcome of a resolve pass.
type Result struct {
	Table      *Table
	Missing    []MissingDescriptor
	Duplicates []Duplicate
}

// Resolver builds the plugin version table.
type Resolver struct {
	opts   Options
	logger *slog.Logger
}

// NewResolver constructs a resolver.
func NewResolver(opts Options, logger *slog.Logger) *Resolver {
	return &Resolver{opts: opts, logger: logging.NewComponentLogger(logger, "versions")}
}

// Resolve reads the build configuration and every declared plugin's version
// descriptor. A missing descriptor is logged and recorded in Result.Missing;
// a descriptor lacking a marker, or with a non-integer marker, fails the
// whole resolve with an error naming the plugin. Duplicate declarations are
// reported and resolved once.
func (r *Resolver) Resolve(ctx context.Context) (*Result, error) {
	file, err := os.Open(r.opts.BuildConfig)
	if err != nil {
		return nil, fmt.Errorf("open build configuration: %w", err)
	}
	decls, err := ParseBuildConfig(file)
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.opts.BuildConfig, err)
	}

	result := &Result{Table: NewTable()}
	lines := make(map[string][]int, len(decls))
	var order []string
	for _, decl := range decls {
		if _, seen := lines[decl.Name]; !seen {
			order = append(order, decl.Name)
		}
		lines[decl.Name] = append(lines[decl.Name], decl.Line)
	}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if declared := lines[name]; len(declared) > 1 {
			result.Duplicates = append(result.Duplicates, Duplicate{Plugin: name, Lines: declared})
			r.logger.Warn("plugin declared more than once in build configuration",
				logging.String(logging.FieldPlugin, name),
				logging.Any("lines", declared),
				logging.String(logging.FieldEventType, "duplicate_declaration"),
				logging.String(logging.FieldErrorHint, "remove the repeated add_subdirectory entry"),
			)
		}

		path := filepath.Join(r.opts.SourceRoot, name, r.opts.DescriptorPath)
		version, err := r.resolveOne(name, path)
		if errors.Is(err, fs.ErrNotExist) {
			result.Missing = append(result.Missing, MissingDescriptor{Plugin: name, Path: path})
			r.logger.Warn("version descriptor not found; plugin skipped",
				logging.String(logging.FieldPlugin, name),
				logging.Path(path),
				logging.String(logging.FieldEventType, "version_missing"),
				logging.String(logging.FieldImpact, "plugin will not be archived"),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Table.Set(name, version)
		r.logger.Debug("resolved plugin version",
			logging.String(logging.FieldPlugin, name),
			logging.String("version", version.String()),
		)
	}
	return result, nil
}

func (r *Resolver) resolveOne(name, path string) (Version, error) {
	file, err := os.Open(path)
	if err != nil {
		return Version{}, err
	}
	defer file.Close()

	desc, err := ParseDescriptor(file)
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", name, err)
	}
	version, err := desc.Version(r.opts.Keys)
	if err != nil {
		var missing *MissingFieldError
		var malformed *MalformedFieldError
		switch {
		case errors.As(err, &missing):
			missing.Plugin, missing.Path = name, path
		case errors.As(err, &malformed):
			malformed.Plugin, malformed.Path = name, path
		}
		return Version{}, err
	}
	return version, nil
}
