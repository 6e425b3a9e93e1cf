package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/source"
	"github.com/vovakirdan/live-arcade/internal/storage"
)

// Feed flags shared by play, menu and serve.
var (
	flagFeedURL    string
	flagListen     string
	flagReplay     string
	flagDemo       bool
	flagDifficulty string
)

// loadConfig loads the session config and applies the feed and difficulty flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFeedURL != "" {
		cfg.Feed.URL = flagFeedURL
	}
	if flagListen != "" {
		cfg.Feed.Listen = flagListen
	}
	if flagReplay != "" {
		cfg.Feed.Replay = flagReplay
	}
	if flagDemo {
		cfg.Feed.Demo = true
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	}
	if flagFPS > 0 {
		cfg.Engine.TickRate = flagFPS
	}
	cfg.Normalize()
	return cfg, nil
}

// newLogger builds the process logger. An empty path logs to stderr.
// The returned func releases the log file.
func newLogger(path string) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeLog := func() {}
	if path != "" {
		//nolint:errcheck // Best-effort directory creation, OpenFile reports the real error
		os.MkdirAll(filepath.Dir(path), 0o755)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		//nolint:errcheck // Nothing left to report to
		closeLog = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "livearcade",
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger, closeLog, nil
}

// tuiLogPath returns where logs go while the UI owns the terminal.
func tuiLogPath() string {
	if flagLogPath != "" {
		return flagLogPath
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "livearcade.log")
	}
	return os.DevNull
}

// openStore opens the results database, or returns nil when storage is
// disabled or unavailable.
func openStore(cfg config.StorageConfig, logger *log.Logger) *storage.Store {
	if !cfg.Enabled && flagDBPath == "" {
		return nil
	}
	path := flagDBPath
	if path == "" {
		path = cfg.Path
	}
	if path == "" {
		path = "~/.livearcade/results.db"
	}
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open results database", "path", path, "error", err)
		return nil
	}
	return store
}

// startFeed runs every configured source into a new hub. stop cancels the
// sources and waits for them to return.
func startFeed(ctx context.Context, cfg config.Config, seed int64, logger *log.Logger) (hub *source.Hub, stop func()) {
	hub = source.NewHub(source.DefaultBuffer)
	sources := source.FromConfig(cfg.Feed, cfg.Settings, seed, logger)
	if len(sources) == 0 {
		logger.Info("no feed configured, running with ambient participants only")
	}
	for _, src := range sources {
		logger.Info("feed source enabled", "source", src.Name())
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		source.RunAll(ctx, sources, hub, logger)
	}()
	return hub, func() {
		cancel()
		<-done
	}
}

// runtimeConfig sizes the session to the current terminal.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.TickRate = cfg.Engine.TickRate
	rc.Seed = flagSeed
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	return rc
}

// addFeedFlags registers the feed and difficulty flags on cmd.
func addFeedFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&flagFeedURL, "feed", "", "Upstream websocket URL to dial for events")
	flags.StringVar(&flagListen, "listen", "", "Address to accept pushed events on (HTTP + websocket)")
	flags.StringVar(&flagReplay, "replay", "", "JSONL capture to replay as the event feed")
	flags.BoolVar(&flagDemo, "demo", false, "Generate a synthetic audience")
	flags.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}
