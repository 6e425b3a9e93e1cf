package field

import (
	"testing"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/session"
)

func newMode() (*Mode, *session.Context) {
	ctx := session.New(config.Default(), nil, 11)
	m := New(ctx)
	m.Init()
	return m, ctx
}

func TestProjectileKillBeforeHullDamage(t *testing.T) {
	m, _ := newMode()
	ship := m.shipPos(0)
	owner := m.roster[0]

	m.obstacles = []Obstacle{{Pos: ship, Radius: 1, HP: 1}}
	m.projectiles = []Projectile{{Pos: ship, Life: 1, Owner: owner}}
	m.collide()
	m.cull()

	if m.Hull() != m.cfg.HullMax {
		t.Errorf("Hull() = %v, expected untouched %v", m.Hull(), m.cfg.HullMax)
	}
	if m.kills != 1 {
		t.Errorf("kills = %d, expected 1", m.kills)
	}
	if len(m.Obstacles()) != 0 || len(m.Projectiles()) != 0 {
		t.Errorf("obstacles=%d projectiles=%d, expected both culled", len(m.Obstacles()), len(m.Projectiles()))
	}
}

func TestCullProjectileBounds(t *testing.T) {
	m, _ := newMode()
	m.width, m.height = 80, 24
	owner := m.roster[0]

	tests := []struct {
		pos  core.Vec2
		kept bool
	}{
		{core.V(40, 12), true},
		{core.V(-0.5, 12), true},
		{core.V(80.5, 24.5), true},
		{core.V(-1.5, 12), false},
		{core.V(40, 25.2), false},
		{core.V(81.1, 12), false},
	}
	for _, tc := range tests {
		m.obstacles = nil
		m.projectiles = []Projectile{{Pos: tc.pos, Life: 1, Owner: owner}}
		m.cull()
		if kept := len(m.Projectiles()) == 1; kept != tc.kept {
			t.Errorf("cull() at %v kept = %v, expected %v", tc.pos, kept, tc.kept)
		}
	}
}

func TestShieldAbsorbsPartOfHit(t *testing.T) {
	m, _ := newMode()
	m.shield = m.cfg.ShieldMax
	m.obstacles = []Obstacle{{Pos: m.shipPos(0), Radius: 2, HP: 1}}
	m.collide()

	dmg := m.cfg.HitDamage * 2
	expectedHull := m.cfg.HullMax - dmg*(1-m.cfg.ShieldAbsorb)
	if diff := m.Hull() - expectedHull; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Hull() = %v, expected %v", m.Hull(), expectedHull)
	}
	expectedShield := m.cfg.ShieldMax - dmg*m.cfg.ShieldAbsorb
	if diff := m.Shield() - expectedShield; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Shield() = %v, expected %v", m.Shield(), expectedShield)
	}
}

func TestHullBreachEndsWave(t *testing.T) {
	m, ctx := newMode()
	m.score = 200
	m.hull = 1
	m.obstacles = []Obstacle{{Pos: m.shipPos(0), Radius: 2, HP: 3}, {Pos: core.V(5, 2), Radius: 1, HP: 1}}
	m.collide()

	if m.Wave() != 2 {
		t.Errorf("Wave() = %d, expected 2", m.Wave())
	}
	if m.Hull() != m.cfg.HullMax {
		t.Errorf("Hull() = %v, expected restored", m.Hull())
	}
	if len(m.Obstacles()) != 0 {
		t.Errorf("Obstacles() = %d, expected cleared", len(m.Obstacles()))
	}
	if m.Score() != 200-m.cfg.WavePenalty {
		t.Errorf("Score() = %d, expected %d", m.Score(), 200-m.cfg.WavePenalty)
	}
	if ctx.Notes.Len() == 0 {
		t.Error("breach should be announced")
	}
}

func TestAmbientFieldStaysAliveAndBounded(t *testing.T) {
	m, _ := newMode()
	sawObstacle := false
	for i := 0; i < 3000; i++ {
		m.Update(0.033, 80, 24)
		if len(m.Obstacles()) > m.cfg.MaxObstacles {
			t.Fatalf("tick %d: %d obstacles above cap", i, len(m.Obstacles()))
		}
		if len(m.Projectiles()) > m.cfg.MaxProjectiles {
			t.Fatalf("tick %d: %d projectiles above cap", i, len(m.Projectiles()))
		}
		if len(m.Obstacles()) > 0 {
			sawObstacle = true
		}
	}
	if !sawObstacle {
		t.Error("ambient spawning should keep obstacles on screen")
	}
	if m.kills == 0 {
		t.Error("ambient bots should destroy something")
	}
}

func TestLikesChargeShield(t *testing.T) {
	m, _ := newMode()
	m.OnLike(event.Like{Identity: event.Identity{ParticipantID: "a"}, Count: 5})
	if m.Shield() != 5*m.cfg.ShieldPerLike {
		t.Errorf("Shield() = %v, expected %v", m.Shield(), 5*m.cfg.ShieldPerLike)
	}
	m.OnLike(event.Like{Identity: event.Identity{ParticipantID: "a"}, Count: 100000})
	if m.Shield() != m.cfg.ShieldMax {
		t.Errorf("Shield() = %v, expected capped at %v", m.Shield(), m.cfg.ShieldMax)
	}
}

func TestGiftVolleyByTier(t *testing.T) {
	m, _ := newMode()
	m.OnGift(event.Gift{Identity: event.Identity{ParticipantID: "whale"}, GiftName: "Lion", RepeatCount: 12})

	expected := int(mode.TierLarge.Scale()) * 2
	if got := len(m.Projectiles()); got != expected {
		t.Errorf("Projectiles() = %d, expected volley of %d", got, expected)
	}
	if m.slotOf("whale") < 0 {
		t.Error("gifter should be given a ship")
	}
}

func TestChatActionFires(t *testing.T) {
	m, _ := newMode()
	m.OnChat(event.Chat{Identity: event.Identity{ParticipantID: "v"}, Text: "!attack"})
	m.OnChat(event.Chat{Identity: event.Identity{ParticipantID: "v"}, Text: "!attack"})

	if got := len(m.Projectiles()); got != 1 {
		t.Errorf("Projectiles() = %d, expected 1 (second shot throttled)", got)
	}
}

func TestRealViewerTakesBotSlot(t *testing.T) {
	m, _ := newMode()
	for i := 0; len(m.roster) < maxShips; i++ {
		m.board(string(rune('a' + i)))
	}
	m.board("late")

	if m.slotOf("late") < 0 {
		t.Error("a full fleet should recycle a bot slot")
	}
	if len(m.roster) != maxShips {
		t.Errorf("roster = %d, expected %d", len(m.roster), maxShips)
	}
	if _, ok := m.ctx.Participants.Get(m.bots[0].ID); !ok {
		t.Error("recycled bot must stay registered")
	}
}
