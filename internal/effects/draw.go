package effects

import (
	"unicode/utf8"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Draw renders particles and floating texts. It never mutates effects.
func (s *System) Draw(dst core.Surface) {
	for _, p := range s.particles {
		fade := 1 - p.Age/p.Lifetime
		glyph := '•'
		if fade < 0.5 {
			glyph = '·'
		}
		dst.FillCircle(p.Pos.X, p.Pos.Y, 0.5, core.Style{Glyph: glyph, Color: p.Color}.WithAlpha(fade))
	}
	for _, t := range s.texts {
		fade := 1 - t.Age/t.Lifetime
		x := int(t.Pos.X) - utf8.RuneCountInString(t.Text)/2
		dst.Text(x, int(t.Pos.Y), t.Text, core.Style{Color: t.Color}.WithAlpha(fade))
	}
}

// DrawFlash renders the flash overlay as a fading frame around the surface.
func (s *System) DrawFlash(dst core.Surface) {
	if s.flash < 0.05 {
		return
	}
	st := core.Style{Color: core.ColorBrightWhite}.WithAlpha(s.flash)
	w, h := dst.Width(), dst.Height()
	dst.StrokeRect(core.NewRect(0, 0, w, h), st)
	if s.flash > 0.6 {
		dst.StrokeRect(core.NewRect(1, 1, w-2, h-2), st.WithAlpha(s.flash-0.3))
	}
}
