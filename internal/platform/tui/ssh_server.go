package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/source"
	"github.com/vovakirdan/live-arcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.livearcade/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Session is the configuration every viewer's session starts from.
	Session config.Config

	// Hub fans the shared event feed out to every connected viewer.
	Hub *source.Hub

	// Store persists results. Optional.
	Store *storage.Store

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Session:     config.Default(),
	}
}

// SSHServer serves one independent session per SSH viewer, all fed from
// the same hub.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "livearcade-ssh",
		})
	}
	if cfg.Hub == nil {
		cfg.Hub = source.NewHub(source.DefaultBuffer)
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.Dir()
		if dir == "" {
			return nil, errors.New("cannot resolve home directory for host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	sub := s.config.Hub.Subscribe()
	go func() {
		<-sshSession.Context().Done()
		sub.Close()
	}()

	opts := Options{
		Config: s.config.Session,
		Logger: s.logger.With("user", sshSession.User()),
		Store:  s.config.Store,
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.Session.Engine.TickRate,
			Seed:     time.Now().UnixNano(),
		},
	}

	return NewSessionModel(opts, sub), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("viewer connected",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"viewers", s.config.Hub.Count()+1,
		)
		next(sshSession)
		s.logger.Info("viewer disconnected",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// server fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages one viewer's flow: menu -> session -> menu, with the
// results browser reachable from the menu. It owns the feed reader and
// hands messages to the running session; messages that arrive while the
// menu is open are discarded.
type SessionModel struct {
	opts     Options
	feed     *source.Subscription
	config   core.RuntimeConfig
	menu     MenuModel
	results  *ResultsModel
	game     *Model
	lastMode string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts Options, feed *source.Subscription) SessionModel {
	return SessionModel{
		opts:   opts,
		feed:   feed,
		config: opts.Runtime,
		menu:   NewMenuModel(opts.Runtime, opts.Config.Settings.Mode),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), waitForMessage(m.feed))
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case feedMsg:
		apply := func(source.Message) {}
		if m.game != nil {
			apply = m.game.Apply
		}
		apply(msg.msg)
		drain(m.feed, apply)
		return m, waitForMessage(m.feed)

	case feedClosedMsg:
		return m, nil
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.results != nil:
		return m.updateResults(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates while the mode picker is open.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsResults():
		results := NewResultsModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.results = &results
		m.menu = NewMenuModel(m.config, m.lastMode)
		return m, results.Init()

	case m.menu.Selected() != nil:
		opts := m.opts
		opts.Mode = m.menu.Selected().ModeID
		opts.Runtime = m.config
		opts.Runtime.Seed = time.Now().UnixNano()
		game := NewModel(opts)
		m.game = &game
		m.lastMode = opts.Mode
		return m, m.game.Init()
	}

	return m, cmd
}

// updateResults handles updates while the results browser is open.
func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.results.Update(msg)
	if results, ok := newModel.(ResultsModel); ok {
		m.results = &results
	}

	switch {
	case m.results.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.results.IsGoingBack():
		m.results = nil
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateGame handles updates while a session is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if game, ok := newModel.(Model); ok {
		m.game = &game
	}

	switch {
	case m.game.BackToMenu():
		m.game = nil
		m.menu = NewMenuModel(m.config, m.lastMode)
		return m, m.menu.Init()
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.results != nil:
		return m.results.View()
	}
	return m.menu.View()
}
