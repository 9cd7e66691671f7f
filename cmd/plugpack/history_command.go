package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"plugpack/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var plugin string
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archives recorded by previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if errors.Is(err, history.ErrDisabled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Archive history is disabled (history.enabled = false)")
				return nil
			}
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), history.Filter{Plugin: plugin, RunID: runID, Limit: limit})
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No archives recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Plugin,
					e.Version,
					e.Scope,
					e.CreatedAt.Local().Format(time.DateTime),
					formatBytes(e.Size),
					shortDigest(e.SHA256),
					e.ArchivePath,
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Plugin", "Version", "Scope", "Created", "Size", "SHA-256", "Archive"},
				rows,
				tableStyle{aligns: []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&plugin, "plugin", "p", "", "Only show archives of this plugin")
	cmd.Flags().StringVar(&runID, "run", "", "Only show archives from this run ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of entries to show")
	return cmd
}
