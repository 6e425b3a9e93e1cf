package field

import (
	"fmt"
	"math"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// iso maps cell coordinates to a space where both axes use horizontal
// cell units, so circle tests match what is drawn.
func iso(v core.Vec2) core.Vec2 {
	return core.V(v.X, v.Y*2)
}

func (m *Mode) move(dt float64) {
	for i := range m.obstacles {
		o := &m.obstacles[i]
		o.Pos = o.Pos.Add(o.Vel.Scale(dt))
	}
	for i := range m.projectiles {
		p := &m.projectiles[i]
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Life -= dt
	}
}

// collide resolves projectile-obstacle pairs first so a frame-perfect kill
// is credited before the fleet takes damage, then obstacle-ship pairs.
func (m *Mode) collide() {
	const projectileRadius = 0.5

	for pi := range m.projectiles {
		p := &m.projectiles[pi]
		if p.Life <= 0 {
			continue
		}
		for oi := range m.obstacles {
			o := &m.obstacles[oi]
			if o.HP <= 0 {
				continue
			}
			if !core.CirclesOverlap(iso(p.Pos), projectileRadius, iso(o.Pos), o.Radius) {
				continue
			}
			p.Life = 0
			o.HP--
			if o.HP <= 0 {
				m.destroyed(o, p.Owner)
			}
			break
		}
	}

	for oi := range m.obstacles {
		o := &m.obstacles[oi]
		if o.HP <= 0 {
			continue
		}
		for slot := range m.roster {
			if !core.CirclesOverlap(iso(o.Pos), o.Radius, iso(m.shipPos(slot)), m.cfg.AvatarRadius) {
				continue
			}
			o.HP = 0
			m.hit(o)
			break
		}
		if m.hull <= 0 {
			m.endWave()
			return
		}
	}
}

// destroyed credits a kill.
func (m *Mode) destroyed(o *Obstacle, owner string) {
	points := m.cfg.KillScore * int(math.Ceil(o.Radius))
	m.score += points
	m.kills++

	color := core.ColorBrightYellow
	if p, ok := m.ctx.Participants.Get(owner); ok {
		p.AddScore(points, m.ctx.Now())
		color = p.Color
	}
	m.ctx.Effects.SpawnParticles(o.Pos, 6+int(o.Radius*4), 1, color)
	m.ctx.Effects.SpawnFloatingText(fmt.Sprintf("+%d", points), o.Pos, color)
}

// hit applies an obstacle impact. The shield absorbs its share first and
// the hull takes the rest.
func (m *Mode) hit(o *Obstacle) {
	dmg := m.cfg.HitDamage * o.Radius
	absorbed := math.Min(m.shield, dmg*m.cfg.ShieldAbsorb)
	m.shield -= absorbed
	m.hull -= dmg - absorbed

	m.ctx.Effects.Shake(math.Min(1, dmg/m.cfg.HullMax*3))
	m.ctx.Effects.SpawnParticles(o.Pos, 10, 1.2, core.ColorOrange)
}

// endWave is the hull-breach penalty: score loss, fresh hull, clear skies.
func (m *Mode) endWave() {
	m.score = max(0, m.score-m.cfg.WavePenalty)
	m.hull = m.cfg.HullMax
	m.obstacles = m.obstacles[:0]
	m.wave++

	m.ctx.Effects.Shake(1)
	m.ctx.Effects.Flash(0.8)
	m.ctx.Notify(fmt.Sprintf("Hull breached! Wave %d", m.wave), core.ColorBrightRed)
	m.ctx.Log.Info("field wave lost", "wave", m.wave, "score", m.score)
}

// cull drops dead and out-of-bounds entities in place.
func (m *Mode) cull() {
	w, h := float64(m.width), float64(m.height)

	n := 0
	for _, o := range m.obstacles {
		if o.HP <= 0 || o.Pos.Y-o.Radius/2 > h || o.Pos.X < -o.Radius || o.Pos.X > w+o.Radius {
			continue
		}
		m.obstacles[n] = o
		n++
	}
	m.obstacles = m.obstacles[:n]

	n = 0
	// Projectiles live one cell past each edge.
	bounds := core.NewRect(-1, -1, m.width+2, m.height+2)
	for _, p := range m.projectiles {
		if p.Life <= 0 || !bounds.Contains(int(math.Floor(p.Pos.X)), int(math.Floor(p.Pos.Y))) {
			continue
		}
		m.projectiles[n] = p
		n++
	}
	m.projectiles = m.projectiles[:n]
}
