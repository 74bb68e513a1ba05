package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/rsvp"
	"github.com/pders01/skim/internal/storage"
)

var speedCmd = &cobra.Command{
	Use:   "speed [wpm]",
	Short: "Show or set the stored reading speed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer debuglog.Close()

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			wpm, ok, err := store.ReadingSpeed()
			if err != nil {
				return fmt.Errorf("reading speed: %w", err)
			}
			if !ok {
				wpm = cfg.Reader.WPM
			}
			fmt.Fprintf(out, "%d wpm (%s per word)\n", wpm, rsvp.BaseDuration(wpm))
			return nil
		}

		wpm, err := strconv.Atoi(args[0])
		if err != nil || wpm <= 0 {
			return fmt.Errorf("invalid reading speed %q: want a positive number of words per minute", args[0])
		}
		if err := storage.Retry(func() error { return store.SaveReadingSpeed(wpm) }); err != nil {
			return fmt.Errorf("saving reading speed: %w", err)
		}
		fmt.Fprintf(out, "Reading speed set to %d wpm\n", wpm)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(speedCmd)
}
