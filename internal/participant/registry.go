package participant

import (
	"time"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Registry is the deduplicated map from viewer id to participant.
// It guarantees at most one Participant per id for the life of a session.
// Not safe for concurrent use; the session owns it on a single goroutine.
type Registry struct {
	byID  map[string]*Participant
	order []*Participant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Participant),
	}
}

// Ensure returns the participant for id, constructing and inserting it on
// first sight. A later Ensure fills in a display name or avatar that was
// missing, and a real viewer reusing an ambient id takes it over.
func (r *Registry) Ensure(id Identity) *Participant {
	if p, ok := r.byID[id.ID]; ok {
		if p.DisplayName == "" && id.DisplayName != "" {
			p.DisplayName = id.DisplayName
		}
		if p.AvatarURL == "" && id.AvatarURL != "" {
			p.AvatarURL = id.AvatarURL
		}
		if p.IsAmbient && !id.Ambient {
			p.IsAmbient = false
		}
		return p
	}

	p := &Participant{
		ID:          id.ID,
		DisplayName: id.DisplayName,
		AvatarURL:   id.AvatarURL,
		Pos:         spawnPoint(id.ID),
		Color:       core.ColorFor(id.ID),
		IsAmbient:   id.Ambient,
		Seq:         len(r.order),
	}
	r.byID[id.ID] = p
	r.order = append(r.order, p)
	return p
}

// Get returns the participant for id, if present.
func (r *Registry) Get(id string) (*Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Touch stamps the last-action time of an existing participant.
func (r *Registry) Touch(id string, now time.Duration) {
	if p, ok := r.byID[id]; ok {
		p.LastAction = now
	}
}

// ForEach calls fn for every participant in insertion order.
// Returning false stops the iteration.
func (r *Registry) ForEach(fn func(p *Participant) bool) {
	for _, p := range r.order {
		if !fn(p) {
			return
		}
	}
}

// Len returns the number of distinct participants.
func (r *Registry) Len() int {
	return len(r.order)
}

// CountReal returns the number of non-ambient participants.
func (r *Registry) CountReal() int {
	n := 0
	for _, p := range r.order {
		if !p.IsAmbient {
			n++
		}
	}
	return n
}

// Top returns up to n participants with the highest score.
// Ties keep insertion order.
func (r *Registry) Top(n int) []*Participant {
	out := make([]*Participant, 0, n)
	for _, p := range r.order {
		if p.Score <= 0 {
			continue
		}
		i := len(out)
		for i > 0 && out[i-1].Score < p.Score {
			i--
		}
		if i >= n {
			continue
		}
		out = append(out, nil)
		copy(out[i+1:], out[i:])
		out[i] = p
		if len(out) > n {
			out = out[:n]
		}
	}
	return out
}
