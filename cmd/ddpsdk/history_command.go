package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ddpsdk/internal/journal"
	"ddpsdk/internal/services/ddp"
)

type historyEntry struct {
	ID         string `json:"id" yaml:"id"`
	Operation  string `json:"operation" yaml:"operation"`
	Input      string `json:"input" yaml:"input"`
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	StartedAt  string `json:"started_at" yaml:"started_at"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`
	ExitCode   int    `json:"exit_code" yaml:"exit_code"`
	Outcome    string `json:"outcome" yaml:"outcome"`
	TrackCount int    `json:"track_count" yaml:"track_count"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func historyView(rec ddp.Record) historyEntry {
	return historyEntry{
		ID:         rec.ID,
		Operation:  rec.Operation,
		Input:      rec.Input,
		Output:     rec.Output,
		StartedAt:  rec.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: rec.Duration.Milliseconds(),
		ExitCode:   rec.ExitCode,
		Outcome:    string(rec.Outcome),
		TrackCount: rec.TrackCount,
		Error:      rec.Error,
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent engine invocations from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			return ctx.withJournal(func(store *journal.Store) error {
				records, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				entries := make([]historyEntry, 0, len(records))
				for _, rec := range records {
					entries = append(entries, historyView(rec))
				}
				if handled, err := ctx.writeStructured(cmd, entries); handled {
					return err
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No invocations recorded")
					return nil
				}
				fmt.Fprint(out, historyTable(records))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultListLimit, "Number of invocations to show")
	return cmd
}
