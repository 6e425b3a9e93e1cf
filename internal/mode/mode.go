// Package mode defines the gameplay mode lifecycle contract, the global
// factory registry modes add themselves to, and the selector that owns the
// single active mode of a session.
package mode

import (
	"errors"

	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/session"
)

// ErrUnknownMode is returned when a configured mode id is not registered.
var ErrUnknownMode = errors.New("mode: unknown mode")

// Mode is the lifecycle contract every gameplay mode implements.
// Modes own their private entities and read shared state through the
// session context they were created with.
type Mode interface {
	// ID returns a unique identifier for this mode (e.g., "boss", "field").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Init allocates starting entities and zeroes counters.
	Init()

	// Reset is equivalent to Destroy followed by Init without a full teardown.
	Reset()

	// Update advances the private simulation. dt is pre-clamped by the scheduler.
	// It must keep the screen alive with zero participants and zero events.
	Update(dt float64, width, height int)

	// Draw renders the last known state. It must not mutate gameplay state
	// and is called every frame, including while paused.
	Draw(dst core.Surface, width, height int)

	// Destroy releases anything the mode holds. No-op if nothing is held.
	Destroy()

	// Status returns the scalars shown by the host.
	Status() Status
}

// Optional event hooks. A hook that cannot act on an event ignores it.
type (
	ChatHandler  interface{ OnChat(e event.Chat) }
	LikeHandler  interface{ OnLike(e event.Like) }
	GiftHandler  interface{ OnGift(e event.Gift) }
	JoinHandler  interface{ OnJoin(e event.Join) }
	ShareHandler interface{ OnShare(e event.Share) }
)

// Status is the read-only summary a mode exposes once per tick.
type Status struct {
	Score    int     // Session score for this mode
	Progress float64 // Mode-specific bar in [0,1] (boss hp, hull, round time)
	Label    string  // Short caption for the progress bar
	Detail   string  // Free-form line (round, wave, question)
}

// Factory creates a mode bound to a session.
type Factory func(ctx *session.Context) Mode

// State is the selector-visible lifecycle state of the active mode.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StatePaused
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
