package participant

import "time"

// Cooldown throttles repeated actions per participant on the session clock.
type Cooldown struct {
	period time.Duration
	next   map[string]time.Duration
}

// NewCooldown creates a throttle that allows one action per period.
func NewCooldown(period time.Duration) *Cooldown {
	return &Cooldown{
		period: period,
		next:   make(map[string]time.Duration),
	}
}

// Allow reports whether id may act at now, and if so starts its cooldown.
func (c *Cooldown) Allow(id string, now time.Duration) bool {
	if until, ok := c.next[id]; ok && now < until {
		return false
	}
	c.next[id] = now + c.period
	return true
}

// Reset forgets every pending cooldown.
func (c *Cooldown) Reset() {
	clear(c.next)
}
