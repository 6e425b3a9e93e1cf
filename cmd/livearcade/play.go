package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Host a session in this terminal",
	Long: `Host a live arcade session in this terminal.

Without a mode argument the mode comes from settings.mode, or is picked
from settings.title and settings.description keywords, falling back to boss.

Event feeds (any combination):
  --feed <url>     Dial an upstream websocket relay, reconnecting with backoff
  --listen <addr>  Accept POST /events/{kind} and websocket /ws pushes
  --replay <file>  Replay a JSONL capture
  --demo           Generate a synthetic audience

Host controls:
  P/Space   - Pause/resume
  N/Tab     - Next mode
  R         - Reset the mode
  Ctrl+S    - Screenshot to ~/.livearcade/screenshots
  Q/Ctrl+C  - Quit (the session result is stored)

Examples:
  livearcade play boss --demo
  livearcade play --feed wss://relay.example/stream
  livearcade play quiz --replay ./captures/friday.jsonl
  livearcade play racer --difficulty hard --listen :8089`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	addFeedFlags(playCmd)
}

func runPlay(_ *cobra.Command, args []string) error {
	modeID := ""
	if len(args) == 1 {
		modeID = args[0]
		if !mode.Exists(modeID) {
			return fmt.Errorf("unknown mode %q, run 'livearcade list' to see available modes", modeID)
		}
	}

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

	feed := hub.Subscribe()
	defer feed.Close()

	_, err = tui.Run(tui.Options{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Feed:    feed,
		Runtime: rc,
		Mode:    modeID,
	})
	if err != nil {
		return fmt.Errorf("error running session: %w", err)
	}
	return nil
}
