// Package effects implements time-decaying visual feedback: particles,
// floating text, screen shake and screen flash.
//
// Any component may enqueue an effect; only Advance mutates one afterwards.
// Shake and flash saturate with max semantics so event bursts cannot
// compound visual intensity.
package effects

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
)

// Particle is a short-lived dot. Position and velocity are in surface cells.
type Particle struct {
	Pos      core.Vec2
	Vel      core.Vec2
	Age      float64
	Lifetime float64
	Color    core.Color
}

// FloatingText is a rising label.
type FloatingText struct {
	Text     string
	Pos      core.Vec2
	VelY     float64
	Age      float64
	Lifetime float64
	Color    core.Color
}

// System owns every live effect.
type System struct {
	cfg       config.EffectsConfig
	rng       *rand.Rand
	particles []Particle
	texts     []FloatingText
	shake     float64
	flash     float64
	offsetX   int
	offsetY   int
}

// New creates an effects system. rng drives particle spread and shake jitter.
func New(cfg config.EffectsConfig, rng *rand.Rand) *System {
	return &System{
		cfg:       cfg,
		rng:       rng,
		particles: make([]Particle, 0, cfg.MaxParticles),
		texts:     make([]FloatingText, 0, cfg.MaxTexts),
	}
}

// SpawnParticles emits count particles in random directions from pos.
// speedScale multiplies the base speed. Particles beyond the cap are dropped.
func (s *System) SpawnParticles(pos core.Vec2, count int, speedScale float64, color core.Color) {
	for i := 0; i < count; i++ {
		if len(s.particles) >= s.cfg.MaxParticles {
			return
		}
		angle := s.rng.Float64() * math.Pi * 2
		speed := (s.rng.Float64()*6 + 2) * speedScale
		s.particles = append(s.particles, Particle{
			Pos: pos,
			// Cells are roughly twice as tall as wide
			Vel:      core.V(math.Cos(angle)*speed, math.Sin(angle)*speed*0.5),
			Lifetime: s.cfg.ParticleLifetime * (0.6 + s.rng.Float64()*0.8),
			Color:    color,
		})
	}
}

// SpawnFloatingText enqueues a rising label at pos.
// When the cap is reached the oldest label is replaced.
func (s *System) SpawnFloatingText(text string, pos core.Vec2, color core.Color) {
	ft := FloatingText{
		Text:     text,
		Pos:      pos,
		VelY:     -s.cfg.TextRise,
		Lifetime: s.cfg.TextLifetime,
		Color:    color,
	}
	if len(s.texts) >= s.cfg.MaxTexts {
		copy(s.texts, s.texts[1:])
		s.texts[len(s.texts)-1] = ft
		return
	}
	s.texts = append(s.texts, ft)
}

// Shake requests screen shake of the given strength in [0,1].
func (s *System) Shake(strength float64) {
	s.shake = math.Max(s.shake, core.ClampF(strength, 0, 1))
}

// Flash requests a screen flash of the given strength in [0,1].
func (s *System) Flash(strength float64) {
	s.flash = math.Max(s.flash, core.ClampF(strength, 0, 1))
}

// Advance ages every effect by dt seconds, evicts expired ones and decays
// shake and flash toward zero.
func (s *System) Advance(dt float64) {
	n := 0
	for _, p := range s.particles {
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Vel = p.Vel.Scale(math.Max(0, 1-dt*1.5))
		s.particles[n] = p
		n++
	}
	s.particles = s.particles[:n]

	n = 0
	for _, t := range s.texts {
		t.Age += dt
		if t.Age >= t.Lifetime {
			continue
		}
		t.Pos.Y += t.VelY * dt
		s.texts[n] = t
		n++
	}
	s.texts = s.texts[:n]

	s.shake = math.Max(0, s.shake-s.cfg.ShakeDecay*dt)
	s.flash = math.Max(0, s.flash-s.cfg.FlashDecay*dt)

	s.offsetX, s.offsetY = 0, 0
	if amp := s.shake * float64(s.cfg.ShakeCells); amp >= 0.5 {
		s.offsetX = int(math.Round((s.rng.Float64()*2 - 1) * amp))
		s.offsetY = int(math.Round((s.rng.Float64()*2 - 1) * amp * 0.5))
	}
}

// ShakeMagnitude returns the current shake strength.
func (s *System) ShakeMagnitude() float64 { return s.shake }

// FlashIntensity returns the current flash strength.
func (s *System) FlashIntensity() float64 { return s.flash }

// ShakeOffset returns the cell offset chosen by the last Advance.
func (s *System) ShakeOffset() (int, int) { return s.offsetX, s.offsetY }

// Particles returns the live particles. Callers must not modify them.
func (s *System) Particles() []Particle { return s.particles }

// Texts returns the live floating texts. Callers must not modify them.
func (s *System) Texts() []FloatingText { return s.texts }

// Reset drops every effect.
func (s *System) Reset() {
	s.particles = s.particles[:0]
	s.texts = s.texts[:0]
	s.shake, s.flash = 0, 0
	s.offsetX, s.offsetY = 0, 0
}
