// Package session holds the explicit per-session context handed to every
// engine component. Nothing in the engine is global, so independent
// sessions can run side by side in one process.
package session

import (
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/effects"
	"github.com/vovakirdan/live-arcade/internal/meter"
	"github.com/vovakirdan/live-arcade/internal/notify"
	"github.com/vovakirdan/live-arcade/internal/participant"
)

// Clock is the monotonic simulation clock. It only moves on Advance.
type Clock struct {
	elapsed time.Duration
}

// Advance moves the clock forward by dt seconds.
func (c *Clock) Advance(dt float64) {
	if dt > 0 {
		c.elapsed += time.Duration(dt * float64(time.Second))
	}
}

// Now returns the elapsed simulation time.
func (c *Clock) Now() time.Duration { return c.elapsed }

// Seconds returns the elapsed simulation time in seconds.
func (c *Clock) Seconds() float64 { return c.elapsed.Seconds() }

// Context is everything one session owns. It is single-threaded: the frame
// loop and event handlers mutate it from the same goroutine.
type Context struct {
	Config       config.Config
	Log          *log.Logger
	RNG          *rand.Rand
	Clock        *Clock
	Participants *participant.Registry
	Cooldown     *participant.Cooldown
	Effects      *effects.System
	Hype         *meter.Hype
	Counters     *meter.Counters
	Notes        *notify.Queue
}

// New builds a session context. A nil logger discards output.
func New(cfg config.Config, logger *log.Logger, seed int64) *Context {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := rand.New(rand.NewSource(seed))
	return &Context{
		Config:       cfg,
		Log:          logger,
		RNG:          rng,
		Clock:        &Clock{},
		Participants: participant.NewRegistry(),
		Cooldown:     participant.NewCooldown(time.Duration(cfg.Engine.ActionCooldownMS) * time.Millisecond),
		Effects:      effects.New(cfg.Effects, rng),
		Hype:         meter.NewHype(cfg.Hype),
		Counters:     &meter.Counters{},
		Notes:        notify.NewQueue(cfg.Engine.NotifyCap),
	}
}

// Now returns the simulation time.
func (c *Context) Now() time.Duration { return c.Clock.Now() }

// Notify pushes a HUD note stamped with the simulation time.
func (c *Context) Notify(text string, color core.Color) {
	c.Notes.Push(notify.Note{Text: text, Color: color, At: c.Now()})
}

// Allow applies the per-participant action cooldown.
func (c *Context) Allow(id string) bool {
	if c.Cooldown.Allow(id, c.Now()) {
		return true
	}
	c.Log.Debug("action throttled", "participant", id)
	return false
}

// Boosted reports whether the hype boost window is active.
func (c *Context) Boosted() bool { return c.Hype.Boosted() }

// IsAction reports whether chat text is the configured action command.
func (c *Context) IsAction(text string) bool {
	return matchCommand(text, c.Config.Settings.ActionCommand)
}

// IsJoin reports whether chat text is the configured join command.
func (c *Context) IsJoin(text string) bool {
	return matchCommand(text, c.Config.Settings.JoinCommand)
}

// matchCommand compares the first word of text against cmd, ignoring case.
// An empty command never matches.
func matchCommand(text, cmd string) bool {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return false
	}
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], cmd)
}

// Ensure registers the author of an event and returns its participant.
func (c *Context) Ensure(id, name, avatar string) *participant.Participant {
	p := c.Participants.Ensure(participant.Identity{ID: id, DisplayName: name, AvatarURL: avatar})
	p.LastAction = c.Now()
	return p
}

// SpawnAmbient registers a synthetic filler participant.
func (c *Context) SpawnAmbient(id, name string) *participant.Participant {
	return c.Participants.Ensure(participant.Identity{ID: id, DisplayName: name, Ambient: true})
}
