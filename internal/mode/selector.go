package mode

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"unicode"

	"github.com/vovakirdan/live-arcade/internal/session"
)

// DefaultID is used when configuration resolves to nothing.
const DefaultID = "boss"

// Hint is the mode-selection part of the settings record.
type Hint struct {
	Mode        string
	Title       string
	Description string
}

// PanicError carries a value recovered from a mode call.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("mode panic: %v", e.Value)
}

// Protect runs fn and converts a panic into a *PanicError.
func Protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}

// Resolve picks a mode id from a hint: the configured id if registered,
// else the best keyword match against title and description, else DefaultID.
// A configured but unknown id yields the fallback together with ErrUnknownMode.
func Resolve(h Hint) (string, error) {
	var err error
	if id := strings.ToLower(strings.TrimSpace(h.Mode)); id != "" {
		if Exists(id) {
			return id, nil
		}
		err = fmt.Errorf("%w %q", ErrUnknownMode, id)
	}

	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(h.Title+" "+h.Description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}

	best, bestHits := "", 0
	for _, info := range List() {
		hits := 0
		for _, kw := range info.Keywords {
			if words[strings.ToLower(kw)] {
				hits++
			}
		}
		// List is sorted, so ties keep the lowest id.
		if hits > bestHits {
			best, bestHits = info.ID, hits
		}
	}
	if best != "" {
		return best, err
	}
	return DefaultID, err
}

// Selector owns the single active mode of a session and its lifecycle.
type Selector struct {
	ctx    *session.Context
	active Mode
	state  State
}

// NewSelector creates a selector with no active mode.
func NewSelector(ctx *session.Context) *Selector {
	return &Selector{ctx: ctx}
}

// Select resolves the hint and swaps to the resulting mode.
// An unknown configured mode is logged and falls back; it is not fatal.
func (s *Selector) Select(h Hint) string {
	id, err := Resolve(h)
	if err != nil {
		s.ctx.Log.Warn("unknown mode, falling back", "requested", h.Mode, "mode", id, "error", err)
	}
	if swapErr := s.Swap(id); swapErr != nil && id != DefaultID {
		s.ctx.Log.Warn("mode failed to start, falling back", "mode", id, "error", swapErr)
		id = DefaultID
		//nolint:errcheck // Logged inside Swap
		s.Swap(id)
	}
	return id
}

// Swap destroys the outgoing mode, then creates and initializes the new one.
// Teardown fully completes before the new mode is built.
func (s *Selector) Swap(id string) error {
	f, err := Lookup(id)
	if err != nil {
		return err
	}

	s.teardown()

	next := f(s.ctx)
	if err := Protect(next.Init); err != nil {
		s.ctx.Log.Warn("mode init failed", "mode", id, "error", err)
		//nolint:errcheck // Already failing; release whatever Init grabbed
		Protect(next.Destroy)
		return err
	}

	s.active = next
	s.state = StateRunning
	s.ctx.Log.Info("mode started", "mode", id)
	return nil
}

// Next swaps to the registered mode after the active one, wrapping around.
// Modes that fail to start are skipped.
func (s *Selector) Next() error {
	list := List()
	if len(list) == 0 {
		return fmt.Errorf("%w: registry is empty", ErrUnknownMode)
	}
	start := 0
	if s.active != nil {
		for i, info := range list {
			if info.ID == s.active.ID() {
				start = i + 1
				break
			}
		}
	}

	var err error
	for i := 0; i < len(list); i++ {
		if err = s.Swap(list[(start+i)%len(list)].ID); err == nil {
			return nil
		}
	}
	return err
}

// Reset resets the active mode in place.
func (s *Selector) Reset() error {
	if s.active == nil {
		return errors.New("mode: nothing to reset")
	}
	if err := Protect(s.active.Reset); err != nil {
		s.ctx.Log.Warn("mode reset failed", "mode", s.active.ID(), "error", err)
		return err
	}
	if s.state == StatePaused {
		s.state = StateRunning
	}
	return nil
}

// Pause freezes the active mode's logic. Draw keeps being called.
func (s *Selector) Pause() {
	if s.state == StateRunning {
		s.state = StatePaused
	}
}

// Resume unfreezes a paused mode.
func (s *Selector) Resume() {
	if s.state == StatePaused {
		s.state = StateRunning
	}
}

// TogglePause flips between running and paused.
func (s *Selector) TogglePause() {
	switch s.state {
	case StateRunning:
		s.state = StatePaused
	case StatePaused:
		s.state = StateRunning
	}
}

// Destroy ends the session's mode for good.
func (s *Selector) Destroy() {
	s.teardown()
}

// Active returns the running or paused mode, or nil.
func (s *Selector) Active() Mode {
	return s.active
}

// State returns the lifecycle state of the active mode.
func (s *Selector) State() State {
	return s.state
}

// Paused reports whether mode logic is frozen.
func (s *Selector) Paused() bool {
	return s.state == StatePaused
}

func (s *Selector) teardown() {
	if s.active == nil {
		return
	}
	if err := Protect(s.active.Destroy); err != nil {
		s.ctx.Log.Warn("mode destroy failed", "mode", s.active.ID(), "error", err)
	}
	s.ctx.Log.Info("mode stopped", "mode", s.active.ID())
	s.active = nil
	s.state = StateDestroyed
}
