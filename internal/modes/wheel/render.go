package wheel

import (
	"math"

	"github.com/vovakirdan/live-arcade/internal/core"
)

var segmentColors = []core.Color{
	core.ColorBrightRed,
	core.ColorBrightYellow,
	core.ColorBrightGreen,
	core.ColorBrightCyan,
	core.ColorBrightBlue,
	core.ColorBrightMagenta,
	core.ColorOrange,
}

// Draw renders the wheel with its labels and the pointer at the top.
func (m *Mode) Draw(dst core.Surface, width, height int) {
	n := len(m.cfg.Segments)
	if n == 0 {
		return
	}
	cx, cy := float64(width)/2, float64(height)/2+1
	r := math.Max(3, math.Min(float64(height)/2-3, float64(width)/5))
	seg := tau / float64(n)
	current := m.Current()

	glow := core.Style{Glyph: '·', Color: core.ColorYellow}.WithAlpha(0.3 + 0.7*m.flare)
	dst.StrokeCircle(cx, cy, r+1, glow)
	dst.StrokeCircle(cx, cy, r, core.Solid('○', core.ColorWhite))

	for i, s := range m.cfg.Segments {
		// Segment i spans [i*seg, (i+1)*seg) relative to the wheel angle;
		// the spoke at its leading edge and the label at its middle.
		edge := -math.Pi/2 + float64(i)*seg - m.angle
		for d := 1.0; d < r; d++ {
			x, y := cx+math.Cos(edge)*d*2, cy+math.Sin(edge)*d
			if math.Abs(x-cx) > r*2 {
				break
			}
			dst.Text(int(x), int(y), "·", core.Style{Color: core.ColorGray}.WithAlpha(0.5))
		}

		mid := edge + seg/2
		lx := cx + math.Cos(mid)*r*0.6*2
		ly := cy + math.Sin(mid)*r*0.6
		color := segmentColors[i%len(segmentColors)]
		if i == current && !m.spinning && m.last != nil {
			color = core.ColorBrightWhite
		}
		dst.Text(int(lx)-len(s.Label)/2, int(ly), s.Label, core.Solid(0, color))
	}

	dst.FillCircle(cx, cy, 0.8, core.Solid('●', core.ColorBrightWhite))
	dst.Text(int(cx), int(cy-r)-1, "▼", core.Solid(0, core.ColorBrightRed))
}
