package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subsync/internal/delay"
	"subsync/internal/fileutil"
)

func newEstimateCommand(ctx *commandContext) *cobra.Command {
	var subtitleExponent bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "estimate <file> <time1-ms> <time2-ms>",
		Short: "Estimate delay and growth from two reference timestamps",
		Long: `Calculate the initial delay and delay growth factor of a subtitle file
from the real-world times of the first and last spoken lines, both given in
milliseconds. Feed the result to 'sync' to correct the file.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := args[0]
			time1, err := parseReferenceTime(args[1])
			if err != nil {
				return fmt.Errorf("time1: %w", err)
			}
			time2, err := parseReferenceTime(args[2])
			if err != nil {
				return fmt.Errorf("time2: %w", err)
			}
			if time1 >= time2 {
				return fmt.Errorf("time1 (%d ms) has to be before time2 (%d ms)", time1, time2)
			}

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("inspect %q: %w", path, err)
			}
			if info.IsDir() {
				return fmt.Errorf("%q is a directory, estimation needs a single subtitle file", path)
			}
			if !extensionSupported(path, cfg.Sync.SupportedExtensions) {
				return fmt.Errorf("%q is of unsupported subtitle format (supported: %s)", path, strings.Join(cfg.Sync.SupportedExtensions, ", "))
			}

			doc, err := fileutil.DiskStore{}.ReadAll(path)
			if err != nil {
				return err
			}

			base := delay.ExponentRealWorld
			if subtitleExponent {
				base = delay.ExponentSubtitle
			}
			model, err := delay.Estimator{Base: base}.Fit(doc, time1, time2)
			if err != nil {
				return fmt.Errorf("estimate %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				payload := struct {
					InitialDelayMs float64 `json:"initial_delay_ms"`
					GrowthFactor   float64 `json:"growth_factor"`
				}{model.InitialDelay, model.Growth}
				encoder := json.NewEncoder(out)
				return encoder.Encode(payload)
			}

			fmt.Fprintf(out, "Initial delay: %g ms, growth factor: %.12g\n", model.InitialDelay, model.Growth)
			return nil
		},
	}

	cmd.Flags().BoolVar(&subtitleExponent, "subtitle-exponent", false, "Divide the growth exponent by the subtitle-internal anchor spacing instead of the real-world one")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the estimate as JSON")

	return cmd
}

func parseReferenceTime(arg string) (int64, error) {
	ms, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.New("must be an integer millisecond count")
	}
	if ms < 0 {
		return 0, fmt.Errorf("can't be less than 0, got %d", ms)
	}
	return ms, nil
}

func extensionSupported(path string, supported []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range supported {
		if ext == s {
			return true
		}
	}
	return false
}
