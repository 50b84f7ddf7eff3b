package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ddpsdk/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect and sweep temporary staging directories",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staging directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := staging.ResolveRoot(cfg.Paths.StagingRoot)

			dirs, err := staging.ListDirectories(root)
			if err != nil {
				return fmt.Errorf("list staging directories: %w", err)
			}
			if dirs == nil {
				dirs = []staging.DirInfo{}
			}
			var totalSize int64
			for _, dir := range dirs {
				totalSize += dir.Size
			}

			if handled, err := ctx.writeStructured(cmd, map[string]any{
				"staging_root":     root,
				"directories":      dirs,
				"total_size_bytes": totalSize,
			}); handled {
				return err
			}

			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintln(out, "No staging directories found")
				return nil
			}
			fmt.Fprintf(out, "Staging root: %s\n\n", root)
			fmt.Fprint(out, stagingTable(dirs, time.Now()))
			return nil
		},
	}
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove abandoned staging directories",
		Long: `Remove staging directories left behind by interrupted runs.

A directory is removed only when it is older than --max-age and no running
operation holds its lock. Lock files whose directory is gone are removed too.
The default age comes from staging.stale_after_minutes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			age := maxAge
			if !cmd.Flags().Changed("max-age") {
				age = cfg.StagingStaleAfter()
			}
			if age < 0 {
				return fmt.Errorf("--max-age must not be negative")
			}

			result := staging.CleanStale(cmd.Context(), cfg.Paths.StagingRoot, age, ctx.logs())
			if handled, err := ctx.writeStructured(cmd, stagingCleanView(result)); handled {
				return err
			}
			printStagingCleanResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Only remove directories older than this (e.g. 30m, 6h)")
	return cmd
}

type stagingCleanSummary struct {
	Removed []string `json:"removed" yaml:"removed"`
	InUse   []string `json:"in_use" yaml:"in_use"`
	Errors  []string `json:"errors" yaml:"errors"`
}

func stagingCleanView(result staging.CleanStaleResult) stagingCleanSummary {
	view := stagingCleanSummary{
		Removed: append([]string{}, result.Removed...),
		InUse:   append([]string{}, result.InUse...),
		Errors:  make([]string, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		view.Errors = append(view.Errors, fmt.Sprintf("%s: %v", e.Path, e.Error))
	}
	return view
}

func printStagingCleanResult(cmd *cobra.Command, result staging.CleanStaleResult) {
	out := cmd.OutOrStdout()
	if len(result.Removed) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(out, "No stale staging directories to clean")
	} else {
		fmt.Fprintf(out, "Removed %d stale staging directories\n", len(result.Removed))
	}
	if len(result.InUse) > 0 {
		fmt.Fprintf(out, "Skipped %d directories still in use\n", len(result.InUse))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
	}
}
