package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/storage"
)

// Results layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the mode sidebar
	sidebarWidth       = 18  // Width of the mode sidebar
	maxResults         = 100 // Max sessions to load
)

// allModes is the tab that ranks every mode together.
const allModes = ""

// ResultsKeyMap defines the key bindings for the results browser.
type ResultsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Recent   key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Recent, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Recent, k.Back, k.Quit},
	}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev mode"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next mode"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Recent: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "top/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel is the Bubble Tea model for browsing stored sessions.
type ResultsModel struct {
	tabs        []mode.Info // First entry is the all-modes tab
	tabCursor   int
	store       *storage.Store
	results     []storage.Result
	stats       storage.Stats
	loadErr     error
	recent      bool // Newest first instead of best score first
	table       table.Model
	help        help.Model
	keys        ResultsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if the host pressed back (not quit)
	showSidebar bool
}

// NewResultsModel creates a new results browser.
func NewResultsModel(store *storage.Store, width, height int) ResultsModel {
	tabs := append([]mode.Info{{ID: allModes, Title: "All modes"}}, mode.List()...)

	h := help.New()
	h.ShowAll = false

	m := ResultsModel{
		tabs:        tabs,
		store:       store,
		keys:        DefaultResultsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Mode", Width: 7},
		{Title: "Score", Width: 7},
		{Title: "Winner", Width: 14},
		{Title: "Viewers", Width: 7},
		{Title: "Likes", Width: 7},
		{Title: "Coins", Width: 7},
		{Title: "Length", Width: 8},
		{Title: "Date", Width: 12},
	}

	tableHeight := m.height - 10 // Header, stats, help and margins
	if tableHeight < 3 {
		tableHeight = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// current returns the mode id of the selected tab.
func (m *ResultsModel) current() string {
	return m.tabs[m.tabCursor].ID
}

// load reads sessions and aggregates for the selected tab.
func (m *ResultsModel) load() {
	m.results, m.stats, m.loadErr = nil, storage.Stats{}, nil
	if m.store != nil {
		if m.recent {
			m.results, m.loadErr = m.recentFor(m.current())
		} else {
			m.results, m.loadErr = m.store.TopResults(m.current(), maxResults)
		}
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.ModeStats(m.current())
		}
	}
	m.updateTableRows()
}

// recentFor filters the newest sessions down to one mode.
func (m *ResultsModel) recentFor(modeID string) ([]storage.Result, error) {
	all, err := m.store.RecentResults(maxResults)
	if err != nil || modeID == allModes {
		return all, err
	}
	out := all[:0]
	for _, r := range all {
		if r.ModeID == modeID {
			out = append(out, r)
		}
	}
	return out, nil
}

// updateTableRows updates the table with the loaded sessions.
func (m *ResultsModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.ModeID,
			fmt.Sprintf("%d", r.Score),
			winner,
			fmt.Sprintf("%d", r.Viewers),
			fmt.Sprintf("%d", r.Counters.Likes),
			fmt.Sprintf("%d", r.Counters.Coins),
			formatDuration(r.Duration),
			r.StartedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// formatDuration renders a session length as m:ss or h:mm:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mins := int(d/time.Minute) % 60
	secs := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results browser.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode), key.Matches(msg, m.keys.Right):
			m.tabCursor = (m.tabCursor + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevMode), key.Matches(msg, m.keys.Left):
			m.tabCursor--
			if m.tabCursor < 0 {
				m.tabCursor = len(m.tabs) - 1
			}
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Recent):
			m.recent = !m.recent
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results browser.
func (m ResultsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	order := "TOP SESSIONS"
	if m.recent {
		order = "RECENT SESSIONS"
	}
	title := fmt.Sprintf("%s - %s", order, m.tabs[m.tabCursor].Title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStats renders the aggregate line of the selected tab.
func (m ResultsModel) renderStats() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	if m.loadErr != nil {
		return style.Foreground(lipgloss.Color("9")).Render("cannot load results: " + m.loadErr.Error())
	}
	st := m.stats
	return style.Render(fmt.Sprintf(
		"sessions %d  best %d  likes %d  gifts %d  coins %d  streamed %s",
		st.Sessions, st.BestScore, st.TotalLikes, st.TotalGifts, st.TotalCoins, formatDuration(st.TotalTime),
	))
}

// renderWideLayout renders the table with a sidebar for mode selection.
func (m ResultsModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, tab := range m.tabs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.tabCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := tab.Title
		if limit := sidebarWidth - 6; len(name) > limit {
			name = name[:limit-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders mode tabs above the table.
func (m ResultsModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		name := tab.ID
		if name == allModes {
			name = "all"
		}
		if i == m.tabCursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.tabs[m.tabCursor].Title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ResultsModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No sessions recorded yet.\nGo live to fill this table!")
	}
	return m.table.View()
}

// Rows returns the rendered table rows.
func (m ResultsModel) Rows() []table.Row {
	return m.table.Rows()
}

// IsGoingBack returns true if the host wants to go back to the menu.
func (m ResultsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the host wants to quit entirely.
func (m ResultsModel) IsQuitting() bool {
	return m.quitting
}

// RunResults runs the results browser.
// Returns true if the host wants to go back to the menu, false if quitting.
func RunResults(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewResultsModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ResultsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
