package core

import "math"

// Style describes how a primitive is composited onto a surface.
type Style struct {
	Glyph rune    // Cell glyph; 0 selects a shade block based on Alpha
	Color Color   // Foreground color
	Alpha float64 // Opacity in (0,1]; zero means opaque
}

// Solid returns an opaque style with the given glyph and color.
func Solid(glyph rune, color Color) Style {
	return Style{Glyph: glyph, Color: color, Alpha: 1}
}

// WithAlpha returns a copy of the style with the given opacity.
func (s Style) WithAlpha(a float64) Style {
	s.Alpha = ClampF(a, 0.01, 1)
	return s
}

// Opacity returns the effective opacity in (0,1].
func (s Style) Opacity() float64 {
	if s.Alpha <= 0 {
		return 1
	}
	return math.Min(s.Alpha, 1)
}

// Surface is the 2D drawing target handed to modes and the HUD.
// Coordinates are in surface cells; circles take fractional centers.
type Surface interface {
	Width() int
	Height() int
	FillRect(r Rect, st Style)
	StrokeRect(r Rect, st Style)
	FillCircle(cx, cy, radius float64, st Style)
	StrokeCircle(cx, cy, radius float64, st Style)
	Text(x, y int, text string, st Style)
}

// Offset returns a surface that translates every primitive by (dx, dy).
// The scheduler uses it to apply screen shake without modes knowing.
func Offset(dst Surface, dx, dy int) Surface {
	if dx == 0 && dy == 0 {
		return dst
	}
	return offsetSurface{dst: dst, dx: dx, dy: dy}
}

type offsetSurface struct {
	dst    Surface
	dx, dy int
}

func (o offsetSurface) Width() int  { return o.dst.Width() }
func (o offsetSurface) Height() int { return o.dst.Height() }

func (o offsetSurface) FillRect(r Rect, st Style) {
	o.dst.FillRect(NewRect(r.X+o.dx, r.Y+o.dy, r.W, r.H), st)
}

func (o offsetSurface) StrokeRect(r Rect, st Style) {
	o.dst.StrokeRect(NewRect(r.X+o.dx, r.Y+o.dy, r.W, r.H), st)
}

func (o offsetSurface) FillCircle(cx, cy, radius float64, st Style) {
	o.dst.FillCircle(cx+float64(o.dx), cy+float64(o.dy), radius, st)
}

func (o offsetSurface) StrokeCircle(cx, cy, radius float64, st Style) {
	o.dst.StrokeCircle(cx+float64(o.dx), cy+float64(o.dy), radius, st)
}

func (o offsetSurface) Text(x, y int, text string, st Style) {
	o.dst.Text(x+o.dx, y+o.dy, text, st)
}
