package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"subsync/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded synchronisation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.HistoryPath()); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "No history recorded. Enable it with history.enabled in the config.")
				return nil
			}

			journal, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history journal: %w", err)
			}
			defer journal.Close()

			runs, err := journal.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					run.Target,
					fmt.Sprintf("%g", run.DelayMs),
					fmt.Sprintf("%g", run.Growth),
					yesNo(run.Confirmed),
					fmt.Sprintf("%d", run.Synced),
					fmt.Sprintf("%d", run.Skipped),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Target", "Delay (ms)", "Growth", "Confirmed", "Synced", "Skipped"},
				rows, 4, 5, 7, 8,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
