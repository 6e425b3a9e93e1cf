package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/router"
	"github.com/vovakirdan/live-arcade/internal/scheduler"
	"github.com/vovakirdan/live-arcade/internal/session"
	"github.com/vovakirdan/live-arcade/internal/source"
	"github.com/vovakirdan/live-arcade/internal/storage"
)

// Options configures one hosted session.
type Options struct {
	Config  config.Config
	Logger  *log.Logger
	Store   *storage.Store       // Optional; results are not saved when nil
	Feed    *source.Subscription // Optional; read by the model, closed by its owner
	Runtime core.RuntimeConfig
	Mode    string // Overrides the configured mode when set
}

// Model is the Bubble Tea model hosting one live arcade session.
type Model struct {
	ctx     *session.Context
	modes   *mode.Selector
	router  *router.Router
	sched   *scheduler.Scheduler
	screen  *core.Screen
	feed    *source.Subscription
	store   *storage.Store
	keys    *KeyMapper
	config  core.RuntimeConfig
	hud     scheduler.HUD
	started time.Time

	quitting   bool
	backToMenu bool
	saved      bool
}

// NewModel builds a session and selects its starting mode.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = opts.Config.Engine.TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx := session.New(opts.Config, logger, cfg.Seed)
	modes := mode.NewSelector(ctx)
	hint := mode.Hint{
		Mode:        opts.Config.Settings.Mode,
		Title:       opts.Config.Settings.Title,
		Description: opts.Config.Settings.Description,
	}
	if opts.Mode != "" {
		hint.Mode = opts.Mode
	}
	modes.Select(hint)

	return Model{
		ctx:     ctx,
		modes:   modes,
		router:  router.New(ctx, modes),
		sched:   scheduler.New(ctx, modes),
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		feed:    opts.Feed,
		store:   opts.Store,
		keys:    NewKeyMapper(),
		config:  cfg,
		started: time.Now(),
	}
}

// Init starts the repaint loop and the feed reader.
func (m Model) Init() tea.Cmd {
	m.ctx.Log.Info("session started", "mode", m.ActiveMode(), "seed", m.config.Seed)
	return tea.Batch(tickCmd(m.config.TickRate), waitForMessage(m.feed))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		m.hud = m.sched.Tick(time.Time(msg), m.screen)
		return m, tickCmd(m.config.TickRate)

	case feedMsg:
		m.Apply(msg.msg)
		drain(m.feed, m.Apply)
		return m, waitForMessage(m.feed)

	case feedClosedMsg:
		m.ctx.Log.Debug("feed subscription closed")
		return m, nil
	}

	return m, nil
}

// Apply hands one feed message to the session.
func (m Model) Apply(msg source.Message) {
	switch v := msg.(type) {
	case source.Raw:
		//nolint:errcheck // The router logs and counts failures
		m.router.Ingest(v.Kind, v.Payload)
	case source.Status:
		switch {
		case v.Connected:
			m.ctx.Log.Info("feed connected", "source", v.Source)
			m.ctx.Notify("FEED UP: "+v.Source, core.ColorBrightGreen)
		case errors.Is(v.Err, source.ErrConnectionLost):
			m.ctx.Log.Warn("feed lost", "source", v.Source, "error", v.Err)
			m.ctx.Notify("FEED LOST: "+v.Source, core.ColorBrightRed)
		}
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.finish()
		m.backToMenu = true
		return m, tea.Quit

	case core.ActionPause:
		m.modes.TogglePause()

	case core.ActionNextMode:
		if err := m.modes.Next(); err != nil {
			m.ctx.Log.Warn("mode swap failed", "error", err)
		}

	case core.ActionReset:
		//nolint:errcheck // Logged by the selector
		m.modes.Reset()

	case core.ActionScreenshot:
		m.saveScreenshot()
	}

	return m, nil
}

// handleResize processes window resize events. Modes read the size every
// frame, so nothing is reset.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// Result summarizes the session so far.
func (m Model) Result() storage.Result {
	r := storage.Result{
		ModeID:       m.ActiveMode(),
		Score:        m.hud.Status.Score,
		Counters:     *m.ctx.Counters,
		Participants: m.ctx.Participants.Len(),
		Viewers:      m.ctx.Participants.CountReal(),
		Boosts:       m.ctx.Hype.Boosts(),
		StartedAt:    m.started,
		Duration:     m.ctx.Now(),
	}
	if top := m.ctx.Participants.Top(1); len(top) > 0 {
		r.Winner = top[0].Name()
		r.WinnerScore = top[0].Score
	}
	return r
}

// finish tears the session down and stores its result once.
func (m *Model) finish() {
	if m.saved {
		return
	}
	m.saved = true

	result := m.Result()
	m.modes.Destroy()
	m.ctx.Log.Info("session ended",
		"mode", result.ModeID,
		"score", result.Score,
		"viewers", result.Viewers,
		"duration", result.Duration.Round(time.Second),
	)

	if m.store == nil || (result.Counters.Total() == 0 && result.Score == 0) {
		return
	}
	if _, err := m.store.SaveResult(result); err != nil {
		m.ctx.Log.Error("cannot save session result", "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(config.Dir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.ActiveMode(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, the session continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
	m.ctx.Notify("SCREENSHOT SAVED", core.ColorGray)
}

// ActiveMode returns the id of the running mode, or "" if none.
func (m Model) ActiveMode() string {
	if a := m.modes.Active(); a != nil {
		return a.ID()
	}
	return ""
}

// HUD returns the snapshot of the last tick.
func (m Model) HUD() scheduler.HUD {
	return m.hud
}

// IsQuitting returns true if the user requested to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked for the mode picker.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderFrame(m.screen, m.hud)
}

// Run hosts one session in the current terminal until the user quits or
// goes back. Returns true if the user wants the mode picker.
func Run(opts Options) (backToMenu bool, err error) {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	m, ok := final.(Model)
	if !ok {
		return false, err
	}
	if !m.saved {
		m.finish()
	}
	return m.BackToMenu(), err
}
