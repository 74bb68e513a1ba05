package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/engine"
	"github.com/pders01/skim/internal/feed"
	"github.com/pders01/skim/internal/protocol"
	"github.com/pders01/skim/internal/source"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/tui"
)

const (
	inboxSize    = 64
	requestsSize = 16
	actionsSize  = 16
)

func runReader(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seedBacklight(cfg, store); err != nil {
		debuglog.Warnf("seeding backlight: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	inbox := make(chan protocol.Message, inboxSize)
	requests := make(chan protocol.Request, requestsSize)
	actions := make(chan engine.Action, actionsSize)
	changes := make(chan *config.Config, 1)

	eng := engine.New(readerOptions(cfg, wpmFlag), engine.ChanOutbox(requests), store)
	src := source.New(feed.NewManager(store, cfg), store, cfg, inbox, source.DefaultOptions())

	// A failing collaborator cancels gctx, which also stops the program.
	g, gctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(tui.NewApp(cfg, actions), tea.WithAltScreen(), tea.WithContext(gctx))
	eng.OnFrame(func(f engine.Frame) {
		p.Send(tui.FrameMsg{Frame: f})
	})

	watchConfig(cfg, changes)

	g.Go(func() error {
		return eng.Run(gctx, inbox, actions)
	})
	g.Go(func() error {
		return src.Run(gctx, requests, changes)
	})

	_, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("running reader: %w", runErr)
	}
	return nil
}

// readerOptions maps the [reader] section onto engine timings. A positive
// wpm overrides the stored reading speed.
func readerOptions(cfg *config.Config, wpm int) engine.Options {
	opts := engine.DefaultOptions()
	r := cfg.Reader
	if r.IntroDelay > 0 {
		opts.IntroDelay = r.IntroDelay
	}
	if r.PageNumberPause > 0 {
		opts.PageNumberPause = r.PageNumberPause
	}
	if r.EndClose >= 0 {
		opts.EndClose = r.EndClose
	}
	if r.RetryTimeout > 0 {
		opts.RetryTimeout = r.RetryTimeout
	}
	if r.PacingDelay > 0 {
		opts.Pacing = r.PacingDelay
	}
	if r.RetryBudget > 0 {
		opts.RetryBudget = r.RetryBudget
	}
	if r.WPM > 0 {
		opts.DefaultWPM = r.WPM
	}
	opts.WPM = wpm
	return opts
}

// seedBacklight stores the configured backlight on first run. Afterwards
// the stored value wins until a config session changes it.
func seedBacklight(cfg *config.Config, store *storage.Store) error {
	_, ok, err := store.Backlight()
	if err != nil || ok {
		return err
	}
	return store.SaveBacklight(cfg.Reader.Backlight)
}

// watchConfig turns edits of the config file into configuration
// sessions. Only the latest pending change is kept.
func watchConfig(cfg *config.Config, changes chan *config.Config) {
	if cfg.File == "" {
		return
	}
	err := config.Watch(cfg.File, func(next *config.Config, err error) {
		if err != nil {
			debuglog.Warnf("reloading config: %v", err)
			return
		}
		if dbPath != "" {
			next.Database.Path = cfg.Database.Path
		}
		for {
			select {
			case changes <- next:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})
	if err != nil {
		debuglog.Warnf("watching config: %v", err)
	}
}
