package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/live-arcade/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a mode, Tab for stored
results. Inside a session, Esc or B ends it and returns to the menu; the
event feed keeps running between sessions.

Examples:
  livearcade menu --demo
  livearcade menu --feed wss://relay.example/stream --fps 30`,
	RunE: runMenu,
}

func init() {
	addFeedFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(tuiLogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.Storage, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rc := runtimeConfig(cfg)
	hub, stop := startFeed(ctx, cfg, rc.Seed, logger)
	defer stop()

	current := cfg.Settings.Mode
	for {
		menuResult, err := tui.RunMenu(rc, current)
		if err != nil {
			return fmt.Errorf("error running menu: %w", err)
		}
		rc = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsResults {
			goBack, err := tui.RunResults(store, rc.ScreenW, rc.ScreenH)
			if err != nil {
				return fmt.Errorf("error running results: %w", err)
			}
			if !goBack {
				return nil
			}
			continue
		}

		current = menuResult.ModeID
		// Each session reads its own subscription so nothing queued for
		// an earlier session leaks into the next.
		feed := hub.Subscribe()
		backToMenu, err := tui.Run(tui.Options{
			Config:  cfg,
			Logger:  logger,
			Store:   store,
			Feed:    feed,
			Runtime: rc,
			Mode:    current,
		})
		feed.Close()
		if err != nil {
			return fmt.Errorf("error running session: %w", err)
		}
		if !backToMenu {
			return nil
		}
	}
}
