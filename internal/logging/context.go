package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for packaging run identifiers.
	FieldRunID = "run_id"
	// FieldScope is the standardized structured logging key for platform scopes (full, macOS).
	FieldScope = "scope"
	// FieldPlugin is the standardized structured logging key for plugin names.
	FieldPlugin = "plugin"
	// FieldEventType classifies a log line for filtering (e.g. "manual_missing").
	FieldEventType = "event_type"
	// FieldErrorHint suggests the operator action that resolves a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact describes what the condition means for the release.
	FieldImpact = "impact"
	// FieldPath is the file or directory a record refers to.
	FieldPath = "path"
	// FieldError carries the error value of a failed operation.
	FieldError = "error"
)

type contextKey int

const (
	runIDKey contextKey = iota
	scopeKey
	pluginKey
)

// WithRunID stores the packaging run identifier on the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithScope stores the platform scope name on the context.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// WithPlugin stores the plugin name on the context.
func WithPlugin(ctx context.Context, plugin string) context.Context {
	return context.WithValue(ctx, pluginKey, plugin)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, runIDKey)
}

// ScopeFromContext returns the scope stored by WithScope.
func ScopeFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, scopeKey)
}

// PluginFromContext returns the plugin stored by WithPlugin.
func PluginFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, pluginKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if scope, ok := ScopeFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldScope, scope))
	}
	if plugin, ok := PluginFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPlugin, plugin))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return logger.With(args...)
}
