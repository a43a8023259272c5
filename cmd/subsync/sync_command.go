package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"subsync/internal/batch"
	"subsync/internal/delay"
	"subsync/internal/fileutil"
	"subsync/internal/history"
	"subsync/internal/resync"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var target string
	var growth float64
	var assumeYes bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "sync <delay-ms>",
		Short: "Apply a delay to subtitle files",
		Long: `Synchronise subtitle files with a positive or negative delay, given in
milliseconds. The target may be a single subtitle file or a directory, in
which case every supported subtitle file directly inside it is adjusted.
A growth factor above 1.0 compounds the delay over the video's runtime,
for subtitles authored against a different frame rate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delayMs, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("delay must be an integer millisecond count: %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("growth") {
				growth = cfg.Sync.DefaultGrowth
			}
			if growth < 1.0 {
				return fmt.Errorf("minimum growth factor is 1.0, got %g", growth)
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			guardMode := resync.GuardFirstCue
			if strict || cfg.Sync.StrictGuard {
				guardMode = resync.GuardStrict
			}

			o := &batch.Orchestrator{
				Store:      fileutil.DiskStore{},
				Extensions: cfg.Sync.SupportedExtensions,
				GuardMode:  guardMode,
				LockPath:   filepath.Join(cfg.LogDir, "subsync.lock"),
				Logger:     logger,
			}

			if cfg.History.Enabled {
				journal, err := history.Open(cfg.HistoryPath())
				if err != nil {
					return fmt.Errorf("open history journal: %w", err)
				}
				defer journal.Close()
				o.Journal = journal
			}

			out := cmd.OutOrStdout()
			if !assumeYes && !cfg.Sync.AssumeYes {
				o.Confirm = newConfirmPrompt(out, cmd.InOrStdin())
			}

			model := delay.Model{InitialDelay: float64(delayMs), Growth: growth}
			summary, err := o.Run(cmd.Context(), target, model)
			if err != nil {
				if errors.Is(err, batch.ErrNoFilesFound) {
					fmt.Fprintln(out, "No subtitles to synchronise.")
					return nil
				}
				return err
			}

			if !summary.Confirmed {
				fmt.Fprintln(out, "Aborted, nothing written.")
				return nil
			}

			fmt.Fprintf(out, "Synchronised %d file(s), skipped %d.\n", summary.Synced, summary.Skipped)
			for _, failure := range summary.Failures {
				fmt.Fprintf(out, "  skipped %s: %v\n", failure.Path, failure.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", ".", "Subtitle file or directory to adjust")
	cmd.Flags().Float64VarP(&growth, "growth", "g", 1.0, "Delay growth factor (minimum 1.0; 1.0 means no growth)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Apply without asking for confirmation")
	cmd.Flags().BoolVar(&strict, "strict", false, "Check every cue under the growth-adjusted model before writing")

	return cmd
}
