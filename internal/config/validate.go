package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVersioning(); err != nil {
		return err
	}
	if err := c.validateScopes(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.BuildConfig == "" {
		return errors.New("paths.build_config must be set")
	}
	if c.Manual.Root == "" {
		return errors.New("manual.root must be set")
	}
	if filepath.IsAbs(c.Manual.DocumentationPath) || strings.HasPrefix(c.Manual.DocumentationPath, "..") {
		return fmt.Errorf("manual.documentation_path must be relative to the bundle, got %q", c.Manual.DocumentationPath)
	}
	if filepath.IsAbs(c.Versioning.DescriptorPath) {
		return fmt.Errorf("versioning.descriptor_path must be relative to the plugin directory, got %q", c.Versioning.DescriptorPath)
	}
	return nil
}

func (c *Config) validateVersioning() error {
	keys := map[string]string{
		"versioning.major_key": c.Versioning.MajorKey,
		"versioning.minor_key": c.Versioning.MinorKey,
		"versioning.patch_key": c.Versioning.PatchKey,
	}
	for field, key := range keys {
		if strings.ContainsAny(key, " \t") {
			return fmt.Errorf("%s must be a single identifier, got %q", field, key)
		}
	}
	return nil
}

func (c *Config) validateScopes() error {
	if len(c.Scopes) == 0 {
		return errors.New("at least one [[scopes]] entry is required")
	}
	names := make(map[string]struct{}, len(c.Scopes))
	staging := make(map[string]string, len(c.Scopes))
	for i, scope := range c.Scopes {
		if scope.Name == "" {
			return fmt.Errorf("scopes[%d].name must be set", i)
		}
		key := strings.ToLower(scope.Name)
		if _, dup := names[key]; dup {
			return fmt.Errorf("scopes[%d].name %q is declared more than once", i, scope.Name)
		}
		names[key] = struct{}{}
		if scope.StagingDir == "" {
			return fmt.Errorf("scopes[%d].staging_dir must be set", i)
		}
		if other, dup := staging[scope.StagingDir]; dup {
			return fmt.Errorf("scopes %q and %q share staging directory %s", other, scope.Name, scope.StagingDir)
		}
		staging[scope.StagingDir] = scope.Name
		if len(scope.Platforms) == 0 {
			return fmt.Errorf("scopes[%d].platforms must list at least one platform", i)
		}
		for _, platform := range scope.Platforms {
			switch platform {
			case platformWindows, platformLinux, platformMacOS:
			default:
				return fmt.Errorf("scopes[%d].platforms: unsupported platform %q", i, platform)
			}
		}
		if strings.ContainsAny(scope.OutputSuffix, `/\`) {
			return fmt.Errorf("scopes[%d].output_suffix must not contain path separators", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
