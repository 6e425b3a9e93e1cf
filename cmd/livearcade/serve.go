package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/live-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sessions to SSH viewers",
	Long: `Start an SSH server. Every connection gets its own independent session
with a mode picker, all driven by the same event feed: one upstream
connection, any number of screens.

Results are stored per server (all viewers share the same database).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.livearcade/host_key

Examples:
  livearcade serve --demo                         # Listen on :23234 with a synthetic audience
  livearcade serve --ssh :2222 --feed wss://...   # Relay a real stream
  livearcade serve --listen :8089                 # Accept pushed events

Viewers connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	addFeedFlags(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The server owns no terminal, so logs go to stderr unless --log is set.
	logger, closeLog, err := newLogger(flagLogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.Storage, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	hub, stop := startFeed(ctx, cfg, seed, logger)
	defer stop()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Session:     cfg,
		Hub:         hub,
		Store:       store,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting live arcade SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
