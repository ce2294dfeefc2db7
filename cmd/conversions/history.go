package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/draphael123/conversions/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent conversion runs from the journal",
	Long: `History lists recent batch runs recorded in the run journal, newest
first. With a run ID it lists every file of that run with its outcome.

The journal is written only when a journal path is configured (--journal,
journal.path in the config file, or CONVERSIONS_JOURNAL_PATH).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return fmt.Errorf("no journal configured: set --journal or journal.path")
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := context.Background()
	if len(args) == 1 {
		entries, err := j.Entries(ctx, args[0])
		if err != nil {
			return err
		}
		return formatEntries(os.Stdout, entries)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	return formatRuns(os.Stdout, runs)
}

func formatRuns(w io.Writer, runs []journal.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %9s  %6s\n", "Run", "Started", "Converted", "Failed")
	fmt.Fprintln(w, strings.Repeat("-", 78))
	for _, r := range runs {
		failed := fmt.Sprintf("%6d", r.Failed)
		if r.Failed > 0 {
			failed = color.RedString(failed)
		}
		started := r.StartedAt.Local().Format(time.DateTime)
		if r.FinishedAt.IsZero() {
			started += " *"
		}
		fmt.Fprintf(w, "%-36s  %-20s  %9d  %s\n", r.ID, started, r.Converted, failed)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func formatEntries(w io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No files recorded for this run.")
		return nil
	}

	for _, e := range entries {
		switch {
		case e.Error != "":
			fmt.Fprintf(w, "%s %s (%s)\n", color.RedString("failed: "), e.Name, e.Error)
		default:
			fmt.Fprintf(w, "%s %s -> %s (%d bytes)\n", color.GreenString("converted:"), e.Name, e.Output, e.Bytes)
		}
	}
	return nil
}
