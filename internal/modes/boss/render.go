package boss

import (
	"fmt"
	"math"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Visual characters for rendering
const (
	eyeGlyph    = '◉'
	deadEye     = 'x'
	hpFullChar  = '█'
	hpEmptyChar = '░'
)

// Draw renders the boss, its hp bar and the attacker ring.
func (m *Mode) Draw(dst core.Surface, width, height int) {
	c := core.V(float64(width)/2, float64(height)*0.42)
	r := math.Max(3, math.Min(float64(width)*0.14, float64(height)*0.7))

	body := core.Solid(0, core.ColorRed)
	switch {
	case m.state == StateDefeated:
		body = core.Style{Color: core.ColorGray}.WithAlpha(0.3)
	case m.wobble > 0:
		body = core.Solid(0, core.ColorBrightWhite)
	case m.hpMax > 0 && m.hp*4 < m.hpMax:
		body = core.Solid(0, core.ColorBrightRed)
	}
	dst.FillCircle(c.X, c.Y, r, body)
	dst.StrokeCircle(c.X, c.Y, r+0.5, core.Style{Glyph: '·', Color: core.ColorMagenta}.WithAlpha(0.5))

	eye := eyeGlyph
	if m.state == StateDefeated {
		eye = deadEye
	}
	ex := int(r * 0.35)
	ey := int(c.Y - r*0.15)
	dst.Text(int(c.X)-ex, ey, string(eye), core.Solid(0, core.ColorBrightYellow))
	dst.Text(int(c.X)+ex, ey, string(eye), core.Solid(0, core.ColorBrightYellow))

	m.drawHPBar(dst, width, int(c.Y-r/2)-2)
	m.drawRing(dst, c, r)

	if m.state == StateDefeated {
		msg := fmt.Sprintf("NEXT BOSS IN %.1fs  (HP %d)", math.Max(0, m.respawnLeft), m.hpMax)
		dst.Text((width-len(msg))/2, int(c.Y+r/2)+2, msg, core.Solid(0, core.ColorBrightYellow))
	}
}

func (m *Mode) drawHPBar(dst core.Surface, width, y int) {
	if y < 1 {
		y = 1
	}
	barW := core.Clamp(width/2, 10, 60)
	x := (width - barW) / 2
	filled := 0
	if m.hpMax > 0 {
		filled = barW * m.hp / m.hpMax
	}
	dst.FillRect(core.NewRect(x, y, barW, 1), core.Solid(hpEmptyChar, core.ColorGray))
	dst.FillRect(core.NewRect(x, y, filled, 1), core.Solid(hpFullChar, core.ColorBrightRed))
	label := fmt.Sprintf(" %d / %d ", m.hp, m.hpMax)
	dst.Text(x+(barW-len(label))/2, y, label, core.Solid(0, core.ColorBrightWhite))
}

// drawRing places recent attackers on an ellipse around the boss.
func (m *Mode) drawRing(dst core.Surface, c core.Vec2, r float64) {
	n := len(m.attackers)
	if n == 0 {
		return
	}
	ring := r * 1.6
	for i, id := range m.attackers {
		p, ok := m.ctx.Participants.Get(id)
		if !ok {
			continue
		}
		angle := float64(i)/float64(n)*2*math.Pi + m.ctx.Clock.Seconds()*0.3
		x := c.X + math.Cos(angle)*ring
		y := c.Y + math.Sin(angle)*ring/2
		st := core.Solid('●', p.Color)
		if p.IsAmbient {
			st = core.Style{Glyph: '○', Color: p.Color}.WithAlpha(0.6)
		}
		dst.FillCircle(x, y, 0.5, st)
		dst.Text(int(x)+1, int(y), p.Monogram(), core.Solid(0, p.Color))
	}
}
