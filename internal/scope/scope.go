// Package scope describes the platform sets a packaging run can target.
//
// The default configuration defines two scopes: "macOS" packages bundles that
// only carry the macOS binary, and "full" packages bundles carrying Windows,
// Linux and macOS binaries. Both run through the same pipeline; the scope
// supplies everything that differs between them.
package scope

import (
	"fmt"
	"strings"

	"plugpack/internal/bundle"
	"plugpack/internal/config"
)

// Scope is a resolved pipeline descriptor.
type Scope struct {
	Name         string
	StagingDir   string
	ZipPatterns  []string
	DirPatterns  []string
	Required     []bundle.Platform
	OutputSuffix string
	StripJunk    bool
}

// FromConfig converts a configured scope.
func FromConfig(cs config.Scope) (Scope, error) {
	required := make([]bundle.Platform, 0, len(cs.Platforms))
	for _, name := range cs.Platforms {
		platform, err := bundle.ParsePlatform(name)
		if err != nil {
			return Scope{}, fmt.Errorf("scope %s: %w", cs.Name, err)
		}
		required = append(required, platform)
	}
	return Scope{
		Name:         cs.Name,
		StagingDir:   cs.StagingDir,
		ZipPatterns:  append([]string(nil), cs.ZipPatterns...),
		DirPatterns:  append([]string(nil), cs.DirPatterns...),
		Required:     required,
		OutputSuffix: cs.OutputSuffix,
		StripJunk:    cs.StripJunk,
	}, nil
}

// Select returns the configured scopes in run order. A non-empty name limits
// the result to that scope.
func Select(cfg *config.Config, name string) ([]Scope, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		cs, ok := cfg.Scope(name)
		if !ok {
			return nil, fmt.Errorf("unknown scope %q (configured: %s)", name, strings.Join(cfg.ScopeNames(), ", "))
		}
		s, err := FromConfig(cs)
		if err != nil {
			return nil, err
		}
		return []Scope{s}, nil
	}

	scopes := make([]Scope, 0, len(cfg.Scopes))
	for _, cs := range cfg.Scopes {
		s, err := FromConfig(cs)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

// ArchiveName returns "<plugin>_<version>" with "_<suffix>" appended when the
// scope has an output suffix.
func (s Scope) ArchiveName(plugin, version string) string {
	name := plugin + "_" + version
	if s.OutputSuffix != "" {
		name += "_" + s.OutputSuffix
	}
	return name
}
