package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	_ "github.com/vovakirdan/live-arcade/internal/modes/boss"
	_ "github.com/vovakirdan/live-arcade/internal/modes/wheel"
	"github.com/vovakirdan/live-arcade/internal/source"
	"github.com/vovakirdan/live-arcade/internal/storage"
)

func chatRaw(id, text string) source.Raw {
	e := event.Chat{Identity: event.Identity{ParticipantID: id, DisplayName: strings.ToUpper(id)}, Text: text}
	return source.Raw{Kind: event.KindChat, Payload: event.Payload(e)}
}

func newTestModel(t *testing.T, store *storage.Store, feed *source.Subscription) Model {
	t.Helper()
	return NewModel(Options{
		Config:  config.Default(),
		Store:   store,
		Feed:    feed,
		Mode:    "boss",
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 7},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return out
}

func TestModelStartsConfiguredMode(t *testing.T) {
	m := newTestModel(t, nil, nil)
	if got := m.ActiveMode(); got != "boss" {
		t.Errorf("ActiveMode() = %q, expected %q", got, "boss")
	}
}

func TestModelTickFillsHUD(t *testing.T) {
	m := newTestModel(t, nil, nil)
	now := time.Unix(100, 0)
	m = update(t, m, TickMsg(now))
	m = update(t, m, TickMsg(now.Add(33*time.Millisecond)))

	hud := m.HUD()
	if hud.ModeID != "boss" {
		t.Errorf("HUD().ModeID = %q, expected %q", hud.ModeID, "boss")
	}
	if hud.Elapsed <= 0 {
		t.Errorf("HUD().Elapsed = %v, expected > 0", hud.Elapsed)
	}
	if m.View() == "" {
		t.Error("View() is empty after a tick")
	}
}

func TestModelDrainsFeed(t *testing.T) {
	hub := source.NewHub(16)
	sub := hub.Subscribe()
	defer sub.Close()

	m := newTestModel(t, nil, sub)
	for _, id := range []string{"a", "b", "c"} {
		hub.Event(chatRaw(id, "!attack"))
	}
	m = update(t, m, feedMsg{msg: <-sub.Messages()})

	if got := m.ctx.Counters.Chats; got != 3 {
		t.Errorf("Counters.Chats = %d, expected 3", got)
	}
	if got := m.ctx.Participants.Len(); got < 3 {
		t.Errorf("Participants.Len() = %d, expected at least 3", got)
	}
}

func TestModelFeedStatusNotifies(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.Apply(source.Status{Source: "dial", Err: errors.Join(source.ErrConnectionLost, errors.New("eof"))})

	found := false
	for _, n := range m.ctx.Notes.Notes() {
		if strings.Contains(n.Text, "FEED LOST") {
			found = true
		}
	}
	if !found {
		t.Error("expected a FEED LOST note after a lost status")
	}
}

func TestModelHostKeys(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m = update(t, m, runeKey("p"))
	if !m.modes.Paused() {
		t.Error("expected the mode to be paused after p")
	}
	m = update(t, m, runeKey("p"))
	if m.modes.Paused() {
		t.Error("expected the mode to resume after a second p")
	}

	m = update(t, m, runeKey("n"))
	if got := m.ActiveMode(); got != "wheel" {
		t.Errorf("ActiveMode() after next = %q, expected %q", got, "wheel")
	}
}

func TestModelQuitSavesResult(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store, nil)
	m.Apply(chatRaw("viewer", "!attack"))
	m = update(t, m, runeKey("q"))
	if !m.IsQuitting() {
		t.Fatal("expected the model to quit on q")
	}
	// A second finish must not store the session twice.
	m.finish()

	results, err := store.RecentResults(10)
	if err != nil {
		t.Fatalf("RecentResults() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("RecentResults() returned %d results, expected 1", len(results))
	}
	if results[0].ModeID != "boss" {
		t.Errorf("ModeID = %q, expected %q", results[0].ModeID, "boss")
	}
	if results[0].Counters.Chats != 1 {
		t.Errorf("Counters.Chats = %d, expected 1", results[0].Counters.Chats)
	}
}

func TestModelBackReturnsToMenu(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("expected BackToMenu() after esc")
	}
	if m.IsQuitting() {
		t.Error("back must not mark the model as quitting")
	}
}

func TestSessionModelFlow(t *testing.T) {
	hub := source.NewHub(16)
	sub := hub.Subscribe()
	defer sub.Close()

	opts := Options{
		Config:  config.Default(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 3},
	}
	sm := NewSessionModel(opts, sub)

	step := func(msg tea.Msg) {
		next, _ := sm.Update(msg)
		sm = next.(SessionModel)
	}

	// Messages arriving in the menu are discarded.
	hub.Event(chatRaw("early", "!attack"))
	step(feedMsg{msg: <-sub.Messages()})
	if sm.game != nil {
		t.Fatal("expected no running session in the menu")
	}

	step(tea.KeyMsg{Type: tea.KeyEnter})
	if sm.game == nil {
		t.Fatal("expected a session after selecting a mode")
	}

	hub.Event(chatRaw("late", "!attack"))
	step(feedMsg{msg: <-sub.Messages()})
	if got := sm.game.ctx.Counters.Chats; got != 1 {
		t.Errorf("Counters.Chats = %d, expected 1", got)
	}

	step(tea.KeyMsg{Type: tea.KeyEsc})
	if sm.game != nil {
		t.Error("expected the menu after esc")
	}
	if sm.quitting {
		t.Error("esc in a session must not end the SSH session")
	}
}
