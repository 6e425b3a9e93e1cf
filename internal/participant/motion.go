package participant

import (
	"math"
)

// Step integrates every participant's velocity over dt. Entities bounce off
// the edges of the unit plane and lose speed at the given damping rate.
func (r *Registry) Step(dt, damping float64) {
	decay := 1.0
	if damping > 0 {
		decay = math.Exp(-damping * dt)
	}
	for _, p := range r.order {
		if p.Vel.X == 0 && p.Vel.Y == 0 {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Pos.X, p.Vel.X = bounce(p.Pos.X, p.Vel.X)
		p.Pos.Y, p.Vel.Y = bounce(p.Pos.Y, p.Vel.Y)
		p.Vel = p.Vel.Scale(decay)
		if p.Vel.Len() < 1e-4 {
			p.Vel = p.Vel.Scale(0)
		}
	}
}

func bounce(pos, vel float64) (float64, float64) {
	switch {
	case math.IsNaN(pos):
		return 0.5, 0
	case pos < 0:
		return math.Min(-pos, 1), math.Abs(vel)
	case pos > 1:
		return math.Max(2-pos, 0), -math.Abs(vel)
	}
	return pos, vel
}
