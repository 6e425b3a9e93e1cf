package racer

import (
	"math"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Visual characters for rendering
const (
	carGlyph    = '►'
	coneGlyph   = '▲'
	laneGlyph   = '┄'
	finishGlyph = '▌'
)

// layout returns the track bounds for a surface size.
func (m *Mode) layout(width, height int) (left, right, top, laneH int) {
	left, right = 2, width-6
	top = 3
	laneH = max(1, (height-top-2)/m.cfg.Lanes)
	return left, right, top, laneH
}

// carCell returns a car's position in surface cells.
func (m *Mode) carCell(c *Car, width, height int) core.Vec2 {
	left, right, top, laneH := m.layout(width, height)
	f := c.Pos - math.Floor(c.Pos)
	return core.V(float64(left)+f*float64(right-left), float64(top+c.Lane*laneH+laneH/2))
}

// Draw renders lanes, cones and cars.
func (m *Mode) Draw(dst core.Surface, width, height int) {
	left, right, top, laneH := m.layout(width, height)
	span := float64(right - left)

	for lane := 0; lane <= m.cfg.Lanes; lane++ {
		y := top + lane*laneH
		dst.FillRect(core.NewRect(left, y, right-left, 1), core.Style{Glyph: laneGlyph, Color: core.ColorGray}.WithAlpha(0.5))
	}
	dst.FillRect(core.NewRect(right, top, 1, laneH*m.cfg.Lanes), core.Solid(finishGlyph, core.ColorBrightWhite))

	for _, h := range m.hazards {
		x := left + int(h.Pos*span)
		dst.Text(x, top+h.Lane*laneH+laneH/2, string(coneGlyph), core.Solid(0, core.ColorOrange))
	}

	// Stack cars sharing a lane cell so none hides another.
	stacked := make(map[[2]int]int)
	for _, c := range m.cars {
		p, ok := m.ctx.Participants.Get(c.ID)
		if !ok {
			continue
		}
		pos := m.carCell(c, width, height)
		key := [2]int{int(pos.X), int(pos.Y)}
		dy := stacked[key]
		stacked[key]++
		if dy >= laneH {
			continue
		}
		st := core.Solid(0, p.Color)
		if p.IsAmbient {
			st = st.WithAlpha(0.6)
		}
		dst.Text(int(pos.X), int(pos.Y)+dy-laneH/2, string(carGlyph)+p.Monogram(), st)
	}

	if m.breakFor > 0 {
		msg := "NEXT ROUND SOON"
		dst.Text((width-len(msg))/2, top+laneH*m.cfg.Lanes+1, msg, core.Solid(0, core.ColorBrightYellow))
	}
}
