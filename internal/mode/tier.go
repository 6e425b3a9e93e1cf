package mode

import (
	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/event"
)

// Tier classifies a gift by size.
type Tier int

const (
	TierSmall Tier = iota
	TierMedium
	TierLarge
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierLarge:
		return "large"
	case TierMedium:
		return "medium"
	default:
		return "small"
	}
}

// Scale returns the tier's relative magnitude (1, 3, 8).
func (t Tier) Scale() float64 {
	switch t {
	case TierLarge:
		return 8
	case TierMedium:
		return 3
	default:
		return 1
	}
}

// TierOf classifies a gift by repeat count or declared value, whichever is larger.
func TierOf(g event.Gift, cfg config.TierConfig) Tier {
	switch {
	case g.RepeatCount >= cfg.LargeRepeat || (cfg.LargeValue > 0 && g.Value >= cfg.LargeValue):
		return TierLarge
	case g.RepeatCount >= cfg.MediumRepeat || (cfg.MediumValue > 0 && g.Value >= cfg.MediumValue):
		return TierMedium
	default:
		return TierSmall
	}
}
