package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"plugpack/internal/fileutil"
	"plugpack/internal/logging"
	"plugpack/internal/scope"
	"plugpack/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect and clean staging directories",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))

	return stagingCmd
}

type stagingListing struct {
	Scope      string            `json:"scope"`
	StagingDir string            `json:"staging_dir"`
	Locked     bool              `json:"locked"`
	Entries    []staging.DirInfo `json:"entries"`
	TotalSize  int64             `json:"total_size_bytes"`
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	var scopeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staging directory contents per scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			scopes, err := scope.Select(cfg, scopeName)
			if err != nil {
				return err
			}

			listings := make([]stagingListing, 0, len(scopes))
			for _, s := range scopes {
				entries, err := staging.ListDirectories(s.StagingDir)
				if err != nil {
					return fmt.Errorf("list %s: %w", s.StagingDir, err)
				}
				locked, err := staging.Locked(s.StagingDir)
				if err != nil {
					return fmt.Errorf("check staging lock: %w", err)
				}
				listing := stagingListing{Scope: s.Name, StagingDir: s.StagingDir, Locked: locked, Entries: entries}
				if listing.Entries == nil {
					listing.Entries = []staging.DirInfo{}
				}
				for _, e := range entries {
					listing.TotalSize += e.Size
				}
				listings = append(listings, listing)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, listings)
			}

			out := cmd.OutOrStdout()
			for i, listing := range listings {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "Scope %s: %s (locked: %s)\n", listing.Scope, listing.StagingDir, yesNo(listing.Locked))
				if len(listing.Entries) == 0 {
					fmt.Fprintln(out, "  empty")
					continue
				}
				rows := make([][]string, 0, len(listing.Entries))
				for _, e := range listing.Entries {
					age := time.Since(e.ModTime).Truncate(time.Minute)
					rows = append(rows, []string{e.Name, string(e.Kind), formatAge(age), formatBytes(e.Size)})
				}
				fmt.Fprint(out, renderTable(
					[]string{"Name", "Kind", "Age", "Size"},
					rows,
					tableStyle{aligns: []columnAlignment{alignLeft, alignLeft, alignRight, alignRight}},
				))
				fmt.Fprintf(out, "Total: %d entries, %s\n", len(listing.Entries), formatBytes(listing.TotalSize))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scopeName, "scope", "s", "", "Only list the named scope")
	return cmd
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var scopeName string
	var cleanAll bool
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove bundles left in staging by skipped plugins",
		Long: `Remove bundles left in staging by skipped plugins.

By default only leftover bundle directories (*.vst3) are removed; release
directories and zips are kept. Use --older-than to keep recent leftovers.

Use --all to remove the staging directories entirely, including any archives
written into them.`,
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
			logger = logging.NewComponentLogger(logger, "staging")
			scopes, err := scope.Select(cfg, scopeName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var removed, failed int
			for _, s := range scopes {
				if cleanAll {
					if !fileutil.IsDir(s.StagingDir) {
						continue
					}
					if err := staging.Remove(cmd.Context(), s.StagingDir, logger); err != nil {
						return err
					}
					removed++
					continue
				}
				result, err := staging.CleanBundles(cmd.Context(), s.StagingDir, olderThan, logger)
				if err != nil {
					return err
				}
				removed += len(result.Removed)
				failed += len(result.Errors)
				for _, e := range result.Errors {
					fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
				}
			}

			label := "leftover bundles"
			if cleanAll {
				label = "staging directories"
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": removed, "errors": failed, "kind": label})
			}
			if failed > 0 {
				fmt.Fprintf(out, "Removed %d %s, %d errors\n", removed, label, failed)
				return nil
			}
			fmt.Fprintf(out, "Removed %d %s\n", removed, label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scopeName, "scope", "s", "", "Only clean the named scope")
	cmd.Flags().BoolVar(&cleanAll, "all", false, "Remove staging directories entirely, including archives")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove leftovers older than this age (e.g. 24h)")
	return cmd
}
