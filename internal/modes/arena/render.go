package arena

import (
	"github.com/vovakirdan/live-arcade/internal/core"
)

// Draw renders every visible fighter as a monogram token.
func (m *Mode) Draw(dst core.Surface, width, height int) {
	dst.StrokeRect(core.NewRect(0, 1, width, height-1), core.Style{Glyph: '·', Color: core.ColorGray}.WithAlpha(0.4))

	for _, p := range m.roster {
		x, y := core.ToCells(p.Pos, width, height)
		st := core.Solid(0, p.Color)
		if p.IsAmbient {
			st = st.WithAlpha(0.6)
		}
		if m.Dashing(p.ID) {
			tail := p.Pos.Sub(p.Vel.Scale(0.08))
			tx, ty := core.ToCells(tail, width, height)
			dst.Text(int(tx), int(ty), "~", core.Style{Color: p.Color}.WithAlpha(0.5))
		}
		label := p.Monogram()
		dst.Text(int(x)-len(label)/2, int(y), label, st)
		if p.Score > 0 && !p.IsAmbient {
			dst.Text(int(x)-len(label)/2, int(y)+1, "▴", core.Solid(0, core.ColorBrightYellow))
		}
	}
}
