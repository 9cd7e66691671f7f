package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"plugpack/internal/archive"
	"plugpack/internal/bundle"
	"plugpack/internal/collector"
	"plugpack/internal/config"
	"plugpack/internal/history"
	"plugpack/internal/logging"
	"plugpack/internal/manual"
	"plugpack/internal/scope"
	"plugpack/internal/staging"
	"plugpack/internal/versions"
)

// Recorder persists produced archives.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (*history.Entry, error)
}

// Options holds the settings shared by every scope.
type Options struct {
	// OutputDir receives release directories and zips. Empty means the
	// scope's staging directory.
	OutputDir   string
	PresetsRoot string
	Vendor      string
}

// OptionsFromConfig derives pipeline options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:   cfg.Paths.OutputDir,
		PresetsRoot: cfg.Presets.Root,
		Vendor:      cfg.Presets.Vendor,
	}
}

// Pipeline packages bundles for one scope at a time.
type Pipeline struct {
	opts      Options
	collector *collector.Collector
	manuals   *manual.Library
	archiver  *archive.Archiver
	recorder  Recorder
	logger    *slog.Logger
}

// New assembles a pipeline from its stages. recorder may be nil.
func New(opts Options, c *collector.Collector, manuals *manual.Library, archiver *archive.Archiver, recorder Recorder, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		opts:      opts,
		collector: c,
		manuals:   manuals,
		archiver:  archiver,
		recorder:  recorder,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// NewFromConfig builds every stage from application config. recorder may be nil.
func NewFromConfig(cfg *config.Config, recorder Recorder, logger *slog.Logger) (*Pipeline, error) {
	manuals, err := manual.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(
		OptionsFromConfig(cfg),
		collector.New(collector.OptionsFromConfig(cfg), logger),
		manuals,
		archive.New(logger),
		recorder,
		logger,
	), nil
}

// Run packages every bundle collected for s. Soft failures are logged and
// reported; a missing required binary aborts the pass and is returned wrapped,
// together with the report of everything processed before it.
func (p *Pipeline) Run(ctx context.Context, s scope.Scope, table *versions.Table) (*Report, error) {
	ctx = logging.WithScope(ctx, s.Name)
	logger := logging.WithContext(ctx, p.logger)
	report := &Report{Scope: s.Name, StagingDir: s.StagingDir}
	started := time.Now()

	lock, err := staging.Acquire(s.StagingDir)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release staging lock", logging.Error(err))
		}
	}()

	collected, err := p.collector.Collect(ctx, s)
	if err != nil {
		return report, fmt.Errorf("collect artifacts: %w", err)
	}
	report.Collected = collected

	bundles, err := bundle.Discover(s.StagingDir)
	if err != nil {
		return report, err
	}
	logger.Info("packaging scope",
		logging.Int("bundles", len(bundles)),
		logging.String("staging_dir", s.StagingDir),
	)

	for _, b := range bundles {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := p.process(logging.WithPlugin(ctx, b.Name), s, b, table)
		report.Outcomes = append(report.Outcomes, outcome)
		if err != nil {
			return report, fmt.Errorf("scope %s: %w", s.Name, err)
		}
	}

	logger.Info("scope packaged",
		logging.Int("archived", len(report.Archived())),
		logging.Int("skipped", len(report.Skipped())),
		logging.Duration("elapsed", time.Since(started)),
	)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, s scope.Scope, b bundle.Bundle, table *versions.Table) (Outcome, error) {
	logger := logging.WithContext(ctx, p.logger)
	outcome := Outcome{Plugin: b.Name}

	manualDir, ok := p.manuals.Resolve(b.Name)
	if !ok {
		outcome.Status = StatusSkippedNoManual
		outcome.Reason = "manual not found at " + manualDir
		logger.Warn("manual not found; bundle left in staging",
			logging.String("manual", manualDir),
			logging.String(logging.FieldEventType, "manual_missing"),
			logging.String(logging.FieldErrorHint, "add the manual folder or an entry in manual.json"),
			logging.String(logging.FieldImpact, "plugin is not archived"),
		)
		return outcome, nil
	}
	if err := p.manuals.Attach(ctx, b, manualDir); err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
		return outcome, err
	}

	if err := bundle.Validate(b, s.Required); err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
		var missing *bundle.MissingBinaryError
		if errors.As(err, &missing) {
			logger.Error("required binary missing; stopping",
				logging.String("platform", string(missing.Platform)),
				logging.Path(missing.Path),
				logging.String(logging.FieldEventType, "binary_missing"),
				logging.String(logging.FieldErrorHint, "check the CI build for this platform"),
				logging.String(logging.FieldImpact, "remaining plugins are not archived"),
			)
		}
		return outcome, err
	}

	version, ok := table.Lookup(b.Name)
	if !ok {
		outcome.Status = StatusSkippedNoVersion
		outcome.Reason = "no version resolved"
		logger.Warn("no version for plugin; bundle left in staging",
			logging.String(logging.FieldEventType, "version_missing"),
			logging.String(logging.FieldErrorHint, "declare the plugin in the build configuration with a version descriptor"),
			logging.String(logging.FieldImpact, "plugin is not archived"),
		)
		return outcome, nil
	}
	outcome.Version = version.String()

	outputDir := p.opts.OutputDir
	if outputDir == "" {
		outputDir = s.StagingDir
	}
	result, err := p.archiver.Archive(ctx, archive.Request{
		Dir:         filepath.Join(outputDir, s.ArchiveName(b.Name, outcome.Version)),
		Bundle:      b,
		PresetsRoot: p.opts.PresetsRoot,
		Vendor:      p.opts.Vendor,
	})
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
		return outcome, fmt.Errorf("archive %s: %w", b.Name, err)
	}
	outcome.Status = StatusArchived
	outcome.ZipPath = result.ZipPath
	outcome.Size = result.Size
	outcome.SHA256 = result.SHA256

	p.record(ctx, s, outcome)
	return outcome, nil
}

func (p *Pipeline) record(ctx context.Context, s scope.Scope, outcome Outcome) {
	if p.recorder == nil {
		return
	}
	runID, _ := logging.RunIDFromContext(ctx)
	_, err := p.recorder.Record(ctx, history.Entry{
		RunID:       runID,
		Scope:       s.Name,
		Plugin:      outcome.Plugin,
		Version:     outcome.Version,
		ArchivePath: outcome.ZipPath,
		Size:        outcome.Size,
		SHA256:      outcome.SHA256,
	})
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("failed to record archive in history",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.String(logging.FieldImpact, "archive exists but is missing from the ledger"),
		)
	}
}
