package field

import (
	"github.com/vovakirdan/live-arcade/internal/core"
)

// Visual characters for rendering
const (
	shipGlyph       = '▲'
	projectileGlyph = '|'
	rockGlyph       = '▒'
)

// Draw renders obstacles, projectiles and the fleet.
func (m *Mode) Draw(dst core.Surface, width, height int) {
	for _, o := range m.obstacles {
		st := core.Solid(rockGlyph, core.ColorGray)
		if o.HP > 1 {
			st = core.Solid(0, core.ColorWhite)
		}
		dst.FillCircle(o.Pos.X, o.Pos.Y, o.Radius, st)
	}

	for _, p := range m.projectiles {
		color := core.ColorBrightCyan
		if owner, ok := m.ctx.Participants.Get(p.Owner); ok {
			color = owner.Color
		}
		dst.Text(int(p.Pos.X), int(p.Pos.Y), string(projectileGlyph), core.Solid(0, color))
	}

	n := len(m.roster)
	shieldUp := m.shield > 1
	for i, id := range m.roster {
		p, ok := m.ctx.Participants.Get(id)
		if !ok {
			continue
		}
		x := int(float64(width) * float64(i+1) / float64(n+1))
		y := height - 3
		st := core.Solid(0, p.Color)
		if p.IsAmbient {
			st = st.WithAlpha(0.6)
		}
		dst.Text(x, y, string(shipGlyph), st)
		dst.Text(x-len(p.Monogram())/2, y+1, p.Monogram(), st)
		if shieldUp {
			dst.StrokeCircle(float64(x)+0.5, float64(y)+0.5, 2, core.Style{Glyph: '·', Color: core.ColorBrightBlue}.WithAlpha(m.shield/m.cfg.ShieldMax))
		}
	}

	dst.FillRect(core.NewRect(0, height-1, width, 1), core.Solid('▔', core.ColorBlue))
}
