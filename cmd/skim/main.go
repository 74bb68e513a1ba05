package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/engine"
	"github.com/pders01/skim/internal/storage"
)

// Version is the version of the application, set at build time
var Version = "dev"

var _ engine.Settings = (*storage.Store)(nil)

var (
	cfgFile string
	dbPath  string
	wpmFlag int
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "skim",
	Short: "Read news headlines one word at a time",
	Long: `skim shows RSS headlines as a rapid serial visual presentation:
one word at a time, pinned on its focal letter.

Running 'skim' without a subcommand starts the reader. Pick a feed with
the arrow keys and enter, step through headlines with up/down, open the
article summary with enter and go back with esc.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReader,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/skim/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, mirrored to stderr outside the reader")
	rootCmd.Flags().IntVar(&wpmFlag, "wpm", 0, "reading speed in words per minute (saved for later runs)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the config, applies the global flags and starts
// logging. mirror copies log records to stderr when --verbose is set.
func bootstrap(mirror bool) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = expandTilde(dbPath)
	}

	lvl := debuglog.ParseLogLevel(cfg.Log.Level)
	if verbose {
		lvl = debuglog.LevelDebug
	}
	if err := debuglog.Setup(lvl, cfg.Log.Path); err != nil {
		return nil, err
	}
	if verbose && mirror {
		debuglog.Mirror(os.Stderr)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

func expandTilde(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
