package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"plugpack/internal/history"
	"plugpack/internal/logging"
	"plugpack/internal/pipeline"
	"plugpack/internal/preflight"
	"plugpack/internal/scope"
	"plugpack/internal/versions"
)

func newPackCommand(ctx *commandContext) *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Package every configured scope (the default action)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, ctx, scopeFlag)
		},
	}
	cmd.Flags().StringVarP(&scopeFlag, "scope", "s", "", "Run only the named scope (e.g. full, macOS)")
	return cmd
}

type packSummary struct {
	RunID   string             `json:"run_id"`
	Reports []*pipeline.Report `json:"reports"`
	Error   string             `json:"error,omitempty"`
}

func runPack(cmd *cobra.Command, ctx *commandContext, scopeName string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	scopes, err := scope.Select(cfg, scopeName)
	if err != nil {
		return err
	}

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	if err := preflight.Err(preflight.RunForPack(runCtx, cfg)); err != nil {
		return err
	}

	runID := uuid.NewString()
	runCtx = logging.WithRunID(runCtx, runID)

	resolved, err := versions.NewResolver(versions.OptionsFromConfig(cfg), logger).Resolve(runCtx)
	if err != nil {
		return fmt.Errorf("resolve versions: %w", err)
	}

	var recorder pipeline.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		recorder = store
	}

	p, err := pipeline.NewFromConfig(cfg, recorder, logger)
	if err != nil {
		return err
	}

	summary := packSummary{RunID: runID}
	var runErr error
	for _, s := range scopes {
		report, err := p.Run(runCtx, s, resolved.Table)
		if report != nil {
			summary.Reports = append(summary.Reports, report)
		}
		if err != nil {
			runErr = err
			break
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		summary.Error = runErr.Error()
	}

	if ctx.JSONMode() {
		if err := writeJSON(cmd, summary); err != nil {
			return err
		}
	} else {
		printPackSummary(cmd.OutOrStdout(), summary)
	}
	return runErr
}

func printPackSummary(out io.Writer, summary packSummary) {
	rows := make([][]string, 0)
	var archived, skipped int
	for _, report := range summary.Reports {
		for _, o := range report.Outcomes {
			detail := o.ZipPath
			switch {
			case o.Status == pipeline.StatusArchived:
				archived++
			case o.Status.Skipped():
				skipped++
				detail = o.Reason
			default:
				detail = o.Reason
			}
			rows = append(rows, []string{report.Scope, o.Plugin, o.Version, string(o.Status), detail})
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No bundles found in staging")
	} else {
		fmt.Fprint(out, renderTable(
			[]string{"Scope", "Plugin", "Version", "Status", "Archive / Reason"},
			rows,
			tableStyle{colorize: shouldColorize(out), rowColors: outcomeColors},
		))
	}
	fmt.Fprintf(out, "Run %s: %d archived, %d skipped\n", summary.RunID, archived, skipped)
}

func outcomeColors(row []string) text.Colors {
	if len(row) < 4 {
		return nil
	}
	switch status := pipeline.Status(row[3]); {
	case status == pipeline.StatusArchived:
		return text.Colors{text.FgGreen}
	case status.Skipped():
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgRed}
	}
}
