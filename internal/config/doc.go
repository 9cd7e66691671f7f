// Package config loads, normalizes, and validates plugpack configuration data.
//
// It supplies defaults that reproduce the conventional repository layout
// (build configuration one level up, manuals under ../docs/manual, presets
// under ../presets), expands user paths including tilde shortcuts, reads TOML
// files, and resolves every relative path against the configured work
// directory rather than the process working directory.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
