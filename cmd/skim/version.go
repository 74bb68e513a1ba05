package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/skim/internal/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
		fmt.Fprintln(out, "RSVP headline reader")
		fmt.Fprintln(out, "github.com/pders01/skim")
	},
}

var bannerCmd = &cobra.Command{
	Use:    "banner",
	Short:  "Print the logo",
	Hidden: true,
	Args:   cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		tui.ShowBanner(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, bannerCmd)
}
