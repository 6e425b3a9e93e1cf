// Package router applies normalized events to the session: the participant
// registry first, then the global meters, then the active mode's hooks.
package router

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/participant"
	"github.com/vovakirdan/live-arcade/internal/session"
)

// ErrHookFailure wraps a panic recovered from a mode event hook.
var ErrHookFailure = errors.New("router: mode hook failed")

// Modes is the view of the mode selector the router needs.
type Modes interface {
	Active() mode.Mode
}

// Router routes events into one session. Not safe for concurrent use; the
// host delivers events on the frame goroutine.
type Router struct {
	ctx      *session.Context
	modes    Modes
	handled  int
	dropped  int
	failures int
}

// New creates a router for a session.
func New(ctx *session.Context, modes Modes) *Router {
	return &Router{ctx: ctx, modes: modes}
}

// Stats reports how many events were applied, dropped as malformed, and
// how many hook calls failed.
func (r *Router) Stats() (handled, dropped, failures int) {
	return r.handled, r.dropped, r.failures
}

// Apply routes one event. The event is always considered handled; a hook
// failure is logged and returned wrapped in ErrHookFailure. A chat matching
// the join command is also applied as a Join, counted and announced like a
// real one.
func (r *Router) Apply(e event.Event) error {
	who := e.Who()
	p := r.ctx.Ensure(who.ParticipantID, who.DisplayName, who.AvatarURL)
	r.handled++

	events := []event.Event{e}
	if c, ok := e.(event.Chat); ok && r.ctx.IsJoin(c.Text) {
		events = append(events, event.Join{Identity: c.Identity})
	}
	for _, ev := range events {
		r.account(p, ev)
	}

	m := r.modes.Active()
	if m == nil {
		return nil
	}
	var err error
	for _, ev := range events {
		if derr := r.dispatch(m, ev); err == nil {
			err = derr
		}
	}
	return err
}

// account updates counters, meters and notifications for one event.
func (r *Router) account(p *participant.Participant, e event.Event) {
	r.ctx.Counters.Count(e)

	var boosted bool
	switch v := e.(type) {
	case event.Like:
		boosted = r.ctx.Hype.Like(v.Count)
	case event.Gift:
		boosted = r.ctx.Hype.Gift(v.RepeatCount)
		r.ctx.Notify(giftNote(p, v), core.ColorBrightYellow)
	case event.Share:
		boosted = r.ctx.Hype.Share()
		r.ctx.Notify(fmt.Sprintf("%s shared the stream", p.Name()), core.ColorBrightCyan)
	case event.Join:
		r.ctx.Notify(fmt.Sprintf("%s joined", p.Name()), p.Color)
	}
	if boosted {
		r.ctx.Notify("HYPE BOOST!", core.ColorBrightMagenta)
		r.ctx.Effects.Flash(0.6)
		r.ctx.Log.Info("hype boost", "boosts", r.ctx.Hype.Boosts())
	}
}

// dispatch calls the hook matching the event, if the mode has one.
func (r *Router) dispatch(m mode.Mode, e event.Event) error {
	var call func()
	switch v := e.(type) {
	case event.Chat:
		if h, ok := m.(mode.ChatHandler); ok {
			call = func() { h.OnChat(v) }
		}
	case event.Like:
		if h, ok := m.(mode.LikeHandler); ok {
			call = func() { h.OnLike(v) }
		}
	case event.Gift:
		if h, ok := m.(mode.GiftHandler); ok {
			call = func() { h.OnGift(v) }
		}
	case event.Join:
		if h, ok := m.(mode.JoinHandler); ok {
			call = func() { h.OnJoin(v) }
		}
	case event.Share:
		if h, ok := m.(mode.ShareHandler); ok {
			call = func() { h.OnShare(v) }
		}
	}
	if call == nil {
		return nil
	}
	if err := mode.Protect(call); err != nil {
		r.failures++
		r.ctx.Log.Warn("mode hook failed",
			"mode", m.ID(), "kind", e.Kind(), "participant", e.Who().ParticipantID, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrHookFailure, m.ID(), e.Kind(), err)
	}
	return nil
}

func giftNote(p *participant.Participant, g event.Gift) string {
	name := g.GiftName
	if name == "" {
		name = "a gift"
	}
	if g.RepeatCount > 1 {
		return fmt.Sprintf("%s sent %s x%d", p.Name(), name, g.RepeatCount)
	}
	return fmt.Sprintf("%s sent %s", p.Name(), name)
}
