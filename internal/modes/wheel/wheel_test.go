package wheel

import (
	"math"
	"testing"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/session"
)

func newMode(t *testing.T) (*Mode, *session.Context) {
	t.Helper()
	return newModeWith(t, config.Default())
}

func newModeWith(t *testing.T, cfg config.Config) (*Mode, *session.Context) {
	t.Helper()
	ctx := session.New(cfg, nil, 11)
	m := New(ctx)
	m.Init()
	return m, ctx
}

func spin(id string) event.Chat {
	return event.Chat{Identity: event.Identity{ParticipantID: id, DisplayName: id}, Text: "!attack"}
}

// coast advances the wheel until it settles or the limit is reached.
func coast(m *Mode, limit float64) {
	for t := 0.0; t < limit && (m.Spinning() || t == 0); t += 0.05 {
		m.Update(0.05, 80, 24)
	}
}

func TestSegmentAt(t *testing.T) {
	seg := tau / 6
	tests := []struct {
		angle    float64
		expected int
	}{
		{0, 0},
		{seg * 0.5, 0},
		{seg * 1.5, 1},
		{seg * 5.9, 5},
		{tau, 0},
		{-seg * 0.5, 5},
		{tau*3 + seg*2.2, 2},
	}
	for _, tt := range tests {
		if got := SegmentAt(tt.angle, 6); got != tt.expected {
			t.Errorf("SegmentAt(%.2f, 6) = %d, expected %d", tt.angle, got, tt.expected)
		}
	}
}

func TestSpinPaysLastSpinnerOnce(t *testing.T) {
	cfg := config.Default()
	cfg.Wheel.MinBots = 0
	m, ctx := newModeWith(t, cfg)
	m.OnChat(spin("viewer"))
	if !m.Spinning() {
		t.Fatalf("Spinning() = false after an action")
	}

	coast(m, 60)
	if m.Spinning() {
		t.Fatalf("wheel still spinning after 60s")
	}
	if m.Spins() != 1 {
		t.Errorf("Spins() = %d, expected 1", m.Spins())
	}
	res := m.Last()
	if res == nil || res.Winner != "viewer" {
		t.Fatalf("Last() = %+v, expected winner viewer", res)
	}
	p, _ := ctx.Participants.Get("viewer")
	if p.Score != res.Points {
		t.Errorf("score = %d, expected %d", p.Score, res.Points)
	}

	// Idle drift never pays out.
	for i := 0; i < 600; i++ {
		m.Update(0.05, 80, 24)
	}
	if m.Spins() != 1 {
		t.Errorf("Spins() = %d after idling, expected 1", m.Spins())
	}
	if m.Spin() != m.cfg.IdleSpin {
		t.Errorf("Spin() = %v while idle, expected %v", m.Spin(), m.cfg.IdleSpin)
	}
}

func TestAmbientBotSpinsIdleWheel(t *testing.T) {
	m, ctx := newMode(t)
	for i := 0; i < 120*30; i++ {
		m.Update(1.0/30, 80, 24)
	}

	if m.Spins() == 0 {
		t.Fatalf("Spins() = 0 after 120s idle, expected an ambient spin")
	}
	if n := ctx.Participants.Len(); n != m.cfg.MinBots {
		t.Errorf("Participants.Len() = %d, expected %d", n, m.cfg.MinBots)
	}
	p, ok := ctx.Participants.Get(m.Last().Winner)
	if !ok || !p.IsAmbient {
		t.Errorf("winner %q, expected an ambient participant", m.Last().Winner)
	}
}

func TestViewerPushDelaysBot(t *testing.T) {
	m, _ := newMode(t)
	for i := 0; i < 9; i++ {
		m.Update(1, 80, 24)
	}
	m.OnChat(spin("viewer"))
	coast(m, 60)
	if m.Spins() != 1 || m.Last().Winner != "viewer" {
		t.Errorf("Spins() = %d winner %+v, expected one spin by viewer", m.Spins(), m.Last())
	}
}

func TestSpinCapped(t *testing.T) {
	m, _ := newMode(t)
	for i := 0; i < 20; i++ {
		m.OnGift(event.Gift{Identity: event.Identity{ParticipantID: "whale"}, Value: 100, RepeatCount: 1})
	}
	if m.Spin() > m.cfg.MaxSpin {
		t.Errorf("Spin() = %v, expected at most %v", m.Spin(), m.cfg.MaxSpin)
	}
}

func TestLastPushWins(t *testing.T) {
	m, _ := newMode(t)
	m.OnChat(spin("first"))
	m.OnLike(event.Like{Identity: event.Identity{ParticipantID: "second"}, Count: 3})
	coast(m, 60)
	if m.Last() == nil || m.Last().Winner != "second" {
		t.Errorf("Last() = %+v, expected winner second", m.Last())
	}
}

func TestGiftOutspinsLike(t *testing.T) {
	a, _ := newMode(t)
	b, _ := newMode(t)
	a.OnLike(event.Like{Identity: event.Identity{ParticipantID: "x"}, Count: 1})
	b.OnGift(event.Gift{Identity: event.Identity{ParticipantID: "x"}, Value: 1, RepeatCount: 1})
	if b.Spin() <= a.Spin() {
		t.Errorf("gift spin %v, expected more than like spin %v", b.Spin(), a.Spin())
	}
}

func TestInvalidStateResets(t *testing.T) {
	m, _ := newMode(t)
	m.spin = math.NaN()
	m.Update(0.05, 80, 24)
	if math.IsNaN(m.Spin()) {
		t.Errorf("Spin() = NaN after Update, expected a reset")
	}
}

func TestDraw(t *testing.T) {
	m, _ := newMode(t)
	m.OnChat(spin("v"))
	before := m.angle
	screen := core.NewScreen(80, 24)
	m.Draw(screen, 80, 24)
	if m.angle != before {
		t.Errorf("Draw changed the wheel angle")
	}
}
