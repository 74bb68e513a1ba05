package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/skim/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a config file with every default spelled out",
	Long: `Write a config file with every default spelled out, at --config or
$HOME/.config/skim/config.toml. While the reader runs, saving this file
starts a settings session: the feed list, reading speed and backlight
are reloaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(configCmd)
}
