// Package meter holds the session-wide hype meter and live counters.
package meter

import (
	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
)

// Hype is a decaying accumulator in [0,1]. Saturating it opens a boost
// window of fixed length and resets the accumulator to zero.
type Hype struct {
	cfg       config.HypeConfig
	value     float64
	boostLeft float64
	boosts    int
}

// NewHype creates an empty hype meter.
func NewHype(cfg config.HypeConfig) *Hype {
	return &Hype{cfg: cfg}
}

// Add charges the meter by amount. Negative amounts are ignored.
// It reports whether this charge opened a new boost window.
func (h *Hype) Add(amount float64) bool {
	if amount <= 0 {
		return false
	}
	h.value = core.ClampF(h.value+amount, 0, 1)
	if h.value < 1 {
		return false
	}

	if h.boostLeft > 0 {
		// Already boosted: never stack a second window.
		if h.cfg.Policy == config.PolicyExtend {
			h.boostLeft = h.cfg.BoostSeconds
			h.value = 0
		}
		return false
	}

	h.boostLeft = h.cfg.BoostSeconds
	h.boosts++
	h.value = 0
	return true
}

// Like charges the meter for count likes.
func (h *Hype) Like(count int) bool {
	return h.Add(float64(count) * h.cfg.LikeCharge)
}

// Gift charges the meter for a gift repeated repeat times.
func (h *Hype) Gift(repeat int) bool {
	return h.Add(float64(repeat) * h.cfg.GiftCharge)
}

// Share charges the meter for one share.
func (h *Hype) Share() bool {
	return h.Add(h.cfg.ShareCharge)
}

// Advance decays the meter linearly and runs down the boost window.
func (h *Hype) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	h.value = core.ClampF(h.value-h.cfg.Decay*dt, 0, 1)
	if h.boostLeft > 0 {
		h.boostLeft -= dt
		if h.boostLeft < 0 {
			h.boostLeft = 0
		}
	}
}

// Value returns the meter level in [0,1].
func (h *Hype) Value() float64 { return h.value }

// Boosted reports whether a boost window is active.
func (h *Hype) Boosted() bool { return h.boostLeft > 0 }

// BoostRemaining returns the seconds left in the current window.
func (h *Hype) BoostRemaining() float64 { return h.boostLeft }

// BoostProgress returns the remaining fraction of the boost window.
func (h *Hype) BoostProgress() float64 {
	if h.cfg.BoostSeconds <= 0 {
		return 0
	}
	return core.ClampF(h.boostLeft/h.cfg.BoostSeconds, 0, 1)
}

// Boosts returns how many boost windows this session has opened.
func (h *Hype) Boosts() int { return h.boosts }

// Reset empties the meter and ends any boost.
func (h *Hype) Reset() {
	h.value = 0
	h.boostLeft = 0
}
