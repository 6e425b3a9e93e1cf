package arena

import (
	"fmt"
	"testing"
	"time"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/session"
)

func newMode(t *testing.T, tweak func(*config.Config)) (*Mode, *session.Context) {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(&cfg)
	}
	ctx := session.New(cfg, nil, 5)
	m := New(ctx)
	m.Init()
	return m, ctx
}

func who(id string) event.Identity {
	return event.Identity{ParticipantID: id, DisplayName: id}
}

// tick runs one frame the way the scheduler does.
func tick(m *Mode, ctx *session.Context, dt float64) {
	ctx.Clock.Advance(dt)
	ctx.Participants.Step(dt, ctx.Config.Engine.Damping)
	m.Update(dt, 80, 24)
}

func TestBotsFillArena(t *testing.T) {
	m, _ := newMode(t, nil)
	if got := len(m.Roster()); got != m.cfg.MinBots {
		t.Errorf("len(Roster()) = %d, expected %d", got, m.cfg.MinBots)
	}
}

func TestVisibleCap(t *testing.T) {
	m, ctx := newMode(t, nil)
	for i := 0; i < 60; i++ {
		m.OnJoin(event.Join{Identity: who(fmt.Sprintf("viewer-%d", i))})
	}
	if got := len(m.Roster()); got != m.limit {
		t.Errorf("len(Roster()) = %d, expected %d", got, m.limit)
	}
	for _, p := range m.Roster() {
		if p.IsAmbient {
			t.Errorf("ambient %s still visible with real viewers waiting", p.ID)
		}
	}
	if m.Visible("viewer-59") {
		t.Errorf("viewer-59 visible on a full board of real viewers")
	}
	if ctx.Participants.CountReal() != 60 {
		t.Errorf("CountReal() = %d, expected 60 registered", ctx.Participants.CountReal())
	}
}

func TestRecyclesLeastRecentlyScoredBot(t *testing.T) {
	m, _ := newMode(t, func(c *config.Config) {
		c.Engine.MaxVisible = 6
		c.Arena.MinBots = 6
	})
	for i, p := range m.Roster() {
		p.LastScored = 10 * time.Second
		if i == 3 {
			p.LastScored = time.Second
		}
	}
	stale := m.Roster()[3].ID

	m.OnJoin(event.Join{Identity: who("newcomer")})
	if !m.Visible("newcomer") {
		t.Fatalf("newcomer not visible")
	}
	if m.Visible(stale) {
		t.Errorf("%s still visible, expected it recycled", stale)
	}
	if len(m.Roster()) != 6 {
		t.Errorf("len(Roster()) = %d, expected 6", len(m.Roster()))
	}
}

func TestDashHitScoresOnce(t *testing.T) {
	m, ctx := newMode(t, func(c *config.Config) { c.Arena.MinBots = 0 })
	m.OnJoin(event.Join{Identity: who("a")})
	m.OnJoin(event.Join{Identity: who("b")})
	a, _ := ctx.Participants.Get("a")
	b, _ := ctx.Participants.Get("b")
	a.Pos, b.Pos = core.V(0.5, 0.5), core.V(0.54, 0.5)

	m.OnChat(event.Chat{Identity: who("a"), Text: "!attack"})
	if !m.Dashing("a") {
		t.Fatalf("Dashing(a) = false after the action command")
	}
	m.Update(0.01, 80, 24)
	m.Update(0.01, 80, 24)

	if a.Score != m.cfg.HitPoints {
		t.Errorf("a.Score = %d, expected %d", a.Score, m.cfg.HitPoints)
	}
	if m.Hits() != 1 {
		t.Errorf("Hits() = %d, expected 1", m.Hits())
	}
	if b.Vel.X <= 0 {
		t.Errorf("b.Vel = %+v, expected knocked away from a", b.Vel)
	}
}

func TestAmbientArenaStaysAlive(t *testing.T) {
	m, ctx := newMode(t, nil)
	for i := 0; i < 3000; i++ {
		tick(m, ctx, 0.033)
		for _, p := range m.Roster() {
			if p.Pos.X < 0 || p.Pos.X > 1 || p.Pos.Y < 0 || p.Pos.Y > 1 {
				t.Fatalf("tick %d: %s at %+v, expected on the plane", i, p.ID, p.Pos)
			}
		}
	}
	if m.Hits() == 0 {
		t.Errorf("Hits() = 0 after 100s of bot play")
	}
}

func TestDestroyStopsFighters(t *testing.T) {
	m, ctx := newMode(t, nil)
	tick(m, ctx, 0.033)
	m.Destroy()
	for _, p := range m.Roster() {
		if p.Vel.Len() != 0 {
			t.Errorf("%s Vel = %+v after Destroy, expected rest", p.ID, p.Vel)
		}
	}
}

func TestDraw(t *testing.T) {
	m, ctx := newMode(t, nil)
	tick(m, ctx, 0.033)
	screen := core.NewScreen(80, 24)
	before := m.Roster()[0].Pos
	m.Draw(screen, 80, 24)
	if m.Roster()[0].Pos != before {
		t.Errorf("Draw moved a fighter")
	}
}
