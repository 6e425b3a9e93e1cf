// Package scheduler drives a session frame by frame. It owns the only
// place where time moves: the clock, effect decay, hype decay and
// participant motion all advance here before the active mode updates.
package scheduler

import (
	"time"

	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/session"
)

// Modes is the view of the mode selector the scheduler needs.
type Modes interface {
	Active() mode.Mode
	Paused() bool
	Reset() error
}

// Scheduler advances one session. Tick is called from the host's repaint
// signal; nothing it calls may panic out of it.
type Scheduler struct {
	ctx   *session.Context
	modes Modes

	last     time.Time
	started  bool
	frames   int
	failures int // Consecutive failed updates of the active mode
	resets   int
	faults   int // Total recovered update and draw failures
}

// New creates a scheduler for a session.
func New(ctx *session.Context, modes Modes) *Scheduler {
	return &Scheduler{ctx: ctx, modes: modes}
}

// Tick advances the session to wall-clock time now and renders a frame.
// The first tick only renders. dt is clamped to the configured maximum so
// a stalled host never makes the simulation jump.
func (s *Scheduler) Tick(now time.Time, dst core.Surface) HUD {
	dt := 0.0
	if s.started {
		dt = now.Sub(s.last).Seconds()
	}
	s.last = now
	s.started = true

	s.Step(s.clamp(dt), dst.Width(), dst.Height())
	s.Draw(dst)
	return s.HUD()
}

func (s *Scheduler) clamp(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if limit := s.ctx.Config.Engine.MaxDT; limit > 0 && dt > limit {
		return limit
	}
	return dt
}

// Step advances the simulation by dt seconds. Nothing moves while the
// active mode is paused.
func (s *Scheduler) Step(dt float64, width, height int) {
	if s.modes.Paused() {
		return
	}
	s.frames++
	s.ctx.Clock.Advance(dt)
	s.ctx.Effects.Advance(dt)
	s.ctx.Hype.Advance(dt)
	s.ctx.Participants.Step(dt, s.ctx.Config.Engine.Damping)

	m := s.modes.Active()
	if m == nil {
		return
	}
	err := mode.Protect(func() { m.Update(dt, width, height) })
	if err == nil {
		s.failures = 0
		return
	}

	s.faults++
	s.failures++
	s.ctx.Log.Warn("mode update failed", "mode", m.ID(), "failures", s.failures, "error", err)
	if s.failures >= max(1, s.ctx.Config.Engine.MaxFailures) {
		s.failures = 0
		s.resets++
		s.ctx.Log.Warn("resetting mode after repeated failures", "mode", m.ID())
		//nolint:errcheck // Logged by the selector
		s.modes.Reset()
	}
}

// Draw renders the active mode, the effects and the HUD onto dst. Mode and
// effects share the shaken surface; the flash frame and HUD stay steady.
func (s *Scheduler) Draw(dst core.Surface) {
	w, h := dst.Width(), dst.Height()
	dx, dy := s.ctx.Effects.ShakeOffset()
	world := core.Offset(dst, dx, dy)

	drawn := false
	if m := s.modes.Active(); m != nil {
		err := mode.Protect(func() { m.Draw(world, w, h) })
		if err != nil {
			s.faults++
			s.ctx.Log.Warn("mode draw failed", "mode", m.ID(), "error", err)
		} else {
			drawn = true
		}
	}
	if !drawn {
		s.drawIdle(world, w, h)
	}

	s.ctx.Effects.Draw(world)
	s.ctx.Effects.DrawFlash(dst)
	s.drawHUD(dst, w, h)
}

// Frames returns the number of simulated frames.
func (s *Scheduler) Frames() int { return s.frames }

// Resets returns how many times the scheduler reset a failing mode.
func (s *Scheduler) Resets() int { return s.resets }

// Faults returns the total number of recovered mode failures.
func (s *Scheduler) Faults() int { return s.faults }
