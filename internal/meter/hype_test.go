package meter

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/event"
)

func TestHypeStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, policy := range []string{config.PolicyIgnore, config.PolicyExtend} {
		cfg := config.Default().Hype
		cfg.Policy = policy
		h := NewHype(cfg)

		for i := 0; i < 20000; i++ {
			switch rng.Intn(4) {
			case 0:
				h.Add(rng.Float64() * 3)
			case 1:
				h.Add(-rng.Float64())
			case 2:
				h.Like(rng.Intn(500))
			default:
				h.Advance(rng.Float64() * 0.5)
			}
			if v := h.Value(); v < 0 || v > 1 {
				t.Fatalf("policy %s step %d: Value() = %v, outside [0,1]", policy, i, v)
			}
			if p := h.BoostProgress(); p < 0 || p > 1 {
				t.Fatalf("policy %s step %d: BoostProgress() = %v, outside [0,1]", policy, i, p)
			}
		}
	}
}

func TestLikeBurstSingleBoost(t *testing.T) {
	h := NewHype(config.Default().Hype)

	triggered := 0
	for i := 0; i < 500; i++ {
		if h.Like(1) {
			triggered++
		}
	}

	if triggered != 1 {
		t.Errorf("boost windows opened = %d, expected 1", triggered)
	}
	if h.Boosts() != 1 {
		t.Errorf("Boosts() = %d, expected 1", h.Boosts())
	}
	if !h.Boosted() {
		t.Error("meter should be boosted after saturating")
	}
	if h.Value() != 1 {
		t.Errorf("Value() = %v, expected meter held at 1 while boosted", h.Value())
	}
}

func TestBoostWindowFixedDuration(t *testing.T) {
	cfg := config.Default().Hype
	h := NewHype(cfg)
	h.Add(1)

	// Re-saturating during the window must not lengthen it.
	h.Advance(cfg.BoostSeconds / 2)
	h.Add(1)
	h.Add(1)
	if got := h.BoostRemaining(); got != cfg.BoostSeconds/2 {
		t.Errorf("BoostRemaining() = %v, expected %v", got, cfg.BoostSeconds/2)
	}

	h.Advance(cfg.BoostSeconds/2 + 0.01)
	if h.Boosted() {
		t.Error("boost should have expired")
	}

	if !h.Add(1) {
		t.Error("saturating after the window should open a new boost")
	}
}

func TestBoostExtendPolicy(t *testing.T) {
	cfg := config.Default().Hype
	cfg.Policy = config.PolicyExtend
	h := NewHype(cfg)
	h.Add(1)
	h.Advance(cfg.BoostSeconds - 1)

	if h.Add(1) {
		t.Error("extend should not count as a new window")
	}
	if got := h.BoostRemaining(); got != cfg.BoostSeconds {
		t.Errorf("BoostRemaining() = %v, expected window restarted at %v", got, cfg.BoostSeconds)
	}
	if h.Boosts() != 1 {
		t.Errorf("Boosts() = %d, expected 1", h.Boosts())
	}
}

func TestHypeDecay(t *testing.T) {
	cfg := config.Default().Hype
	h := NewHype(cfg)
	h.Add(0.5)
	h.Advance(1)

	expected := 0.5 - cfg.Decay
	if diff := h.Value() - expected; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Value() = %v, expected %v", h.Value(), expected)
	}

	h.Advance(1000)
	if h.Value() != 0 {
		t.Errorf("Value() = %v, expected 0 after long decay", h.Value())
	}
}

func TestCounters(t *testing.T) {
	var c Counters
	who := event.Identity{ParticipantID: "a"}
	c.Count(event.Chat{Identity: who, Text: "hi"})
	c.Count(event.Like{Identity: who, Count: 15})
	c.Count(event.Gift{Identity: who, GiftName: "Rose", RepeatCount: 3, Value: 5})
	c.Count(event.Join{Identity: who})
	c.Count(event.Share{Identity: who})

	expected := Counters{Chats: 1, Likes: 15, Gifts: 3, Joins: 1, Shares: 1, Coins: 15}
	if c != expected {
		t.Errorf("Counters = %+v, expected %+v", c, expected)
	}
	if c.Total() != 21 {
		t.Errorf("Total() = %d, expected 21", c.Total())
	}
}
