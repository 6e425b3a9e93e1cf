// Package participant tracks the on-screen entity of every distinct viewer
// seen during a session.
package participant

import (
	"strings"
	"time"
	"unicode"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Identity is what the registry needs to construct a participant.
type Identity struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Ambient     bool // Synthetic filler, not a real viewer
}

// Participant is one viewer's lightweight on-screen entity.
// Position and velocity are on the normalized 0..1 plane.
type Participant struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Pos         core.Vec2
	Vel         core.Vec2
	Score       int
	LastAction  time.Duration // Session clock time of the last event
	LastScored  time.Duration // Session clock time of the last score change
	Color       core.Color
	IsAmbient   bool
	Seq         int // Insertion order, starting at 0
}

// Name returns the display name, falling back to the id.
func (p *Participant) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// Monogram returns up to two uppercase initials for avatar-less rendering.
// It is derived from the name only, so it is stable across frames.
func (p *Participant) Monogram() string {
	var out []rune
	for _, word := range strings.FieldsFunc(p.Name(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		out = append(out, unicode.ToUpper([]rune(word)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// AddScore adds points and stamps the score time.
func (p *Participant) AddScore(points int, now time.Duration) {
	p.Score += points
	p.LastScored = now
}

// spawnPoint derives a stable position from the id hash, kept away from
// the plane edges so new entities are always fully visible.
func spawnPoint(id string) core.Vec2 {
	h := core.HashString(id)
	x := float64(h&0xffff) / 0xffff
	y := float64((h>>16)&0xffff) / 0xffff
	return core.V(0.1+x*0.8, 0.15+y*0.7)
}
