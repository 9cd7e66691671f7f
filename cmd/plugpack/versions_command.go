package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"plugpack/internal/config"
	"plugpack/internal/history"
	"plugpack/internal/logging"
	"plugpack/internal/versions"
)

type versionRow struct {
	Plugin       string `json:"plugin"`
	Version      string `json:"version,omitempty"`
	LastArchived string `json:"last_archived,omitempty"`
	Note         string `json:"note,omitempty"`
}

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Show plugin versions resolved from the build configuration",
		Long: `Show plugin versions resolved from the build configuration.

When the archive history is enabled, the last archived version of each plugin
is shown next to the version found in its source tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			result, err := versions.NewResolver(versions.OptionsFromConfig(cfg), logging.NewComponentLogger(logger, "cli")).Resolve(cmd.Context())
			if err != nil {
				return err
			}
			rows := versionRows(result)
			if err := addLastArchived(cmd.Context(), cfg, rows); err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"build_config": cfg.Paths.BuildConfig,
					"plugins":      rows,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build configuration: %s\n\n", cfg.Paths.BuildConfig)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No plugins declared")
				return nil
			}
			cells := make([][]string, 0, len(rows))
			for _, r := range rows {
				cells = append(cells, []string{r.Plugin, dash(r.Version), dash(r.LastArchived), r.Note})
			}
			fmt.Fprint(out, renderTable([]string{"Plugin", "Version", "Last archived", "Note"}, cells, tableStyle{}))
			fmt.Fprintf(out, "%d plugins with versions, %d without\n", result.Table.Len(), len(result.Missing))
			return nil
		},
	}
}

// versionRows lists resolved plugins in declaration order, then plugins
// without a descriptor.
func versionRows(result *versions.Result) []versionRow {
	rows := make([]versionRow, 0, result.Table.Len()+len(result.Missing))
	index := make(map[string]int)
	for _, name := range result.Table.Names() {
		version, _ := result.Table.Lookup(name)
		index[name] = len(rows)
		rows = append(rows, versionRow{Plugin: name, Version: version.String()})
	}
	for _, m := range result.Missing {
		index[m.Plugin] = len(rows)
		rows = append(rows, versionRow{Plugin: m.Plugin, Note: "no version descriptor at " + m.Path})
	}
	for _, d := range result.Duplicates {
		if i, ok := index[d.Plugin]; ok {
			rows[i].Note = "declared on lines " + joinInts(d.Lines)
		}
	}
	return rows
}

func addLastArchived(ctx context.Context, cfg *config.Config, rows []versionRow) error {
	store, err := history.Open(cfg)
	if errors.Is(err, history.ErrDisabled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	for i := range rows {
		latest, err := store.Latest(ctx, rows[i].Plugin, "")
		if err != nil {
			return err
		}
		if latest != nil {
			rows[i].LastArchived = latest.Version
		}
	}
	return nil
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ", ")
}
