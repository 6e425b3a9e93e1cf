package core

import (
	"math"
	"strings"
)

// cellAspect is how much taller a terminal cell is than it is wide.
// Circles are squashed vertically by this factor so they look round.
const cellAspect = 2.0

// Cell is one character position on the screen.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a 2D character buffer for rendering frames.
// It decouples rendering from the terminal, allowing modes to draw
// using simple primitives while the platform handles actual display.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// Ensure Screen implements Surface.
var _ Surface = (*Screen)(nil)

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
	}
	s.allocate()
	s.Clear()
	return s
}

// allocate creates the underlying cell storage.
func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	copyW := min(oldW, width)
	copyH := min(oldH, height)
	for y := 0; y < copyH; y++ {
		copy(s.cells[y][:copyW], oldCells[y][:copyW])
	}
}

// Clear fills the entire screen with spaces.
func (s *Screen) Clear() {
	s.Fill(' ')
}

// Fill fills the entire screen with the given rune in the default color.
func (s *Screen) Fill(r rune) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: r}
		}
	}
}

// Set places a rune at the given position in the default color.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, r, ColorDefault)
}

// SetCell places a colored rune at the given position.
func (s *Screen) SetCell(x, y int, r rune, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{Rune: ' '}
	}
	return s.cells[y][x]
}

// plot composites a single cell according to the style's opacity.
// Faint primitives never overwrite existing content.
func (s *Screen) plot(x, y int, st Style) {
	a := st.Opacity()
	if a < 0.25 && s.GetCell(x, y).Rune != ' ' {
		return
	}
	s.SetCell(x, y, shadeGlyph(st.Glyph, a), st.Color)
}

// shadeGlyph picks a block shade matching the opacity when no glyph is set.
func shadeGlyph(glyph rune, alpha float64) rune {
	if glyph != 0 && glyph != '█' {
		return glyph
	}
	switch {
	case alpha >= 0.75:
		return '█'
	case alpha >= 0.5:
		return '▓'
	case alpha >= 0.25:
		return '▒'
	default:
		return '░'
	}
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawText(x, y, text)
}

// DrawRect fills a rectangular area with the given rune.
func (s *Screen) DrawRect(r Rect, fill rune) {
	s.FillRect(r, Solid(fill, ColorDefault))
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect) {
	s.drawBox(r, ColorDefault)
}

func (s *Screen) drawBox(r Rect, c Color) {
	s.SetCell(r.X, r.Y, '┌', c)
	s.SetCell(r.Right()-1, r.Y, '┐', c)
	s.SetCell(r.X, r.Bottom()-1, '└', c)
	s.SetCell(r.Right()-1, r.Bottom()-1, '┘', c)

	for x := r.X + 1; x < r.Right()-1; x++ {
		s.SetCell(x, r.Y, '─', c)
		s.SetCell(x, r.Bottom()-1, '─', c)
	}

	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		s.SetCell(r.X, y, '│', c)
		s.SetCell(r.Right()-1, y, '│', c)
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		s.Set(x+i, y, r)
	}
}

// DrawVLine draws a vertical line from (x, y) with the given length.
func (s *Screen) DrawVLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		s.Set(x, y+i, r)
	}
}

// FillRect fills a rectangle with the style.
func (s *Screen) FillRect(r Rect, st Style) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.plot(x, y, st)
		}
	}
}

// StrokeRect outlines a rectangle. A zero glyph uses box-drawing characters.
func (s *Screen) StrokeRect(r Rect, st Style) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	if st.Glyph == 0 {
		s.drawBox(r, st.Color)
		return
	}
	for x := r.X; x < r.Right(); x++ {
		s.plot(x, r.Y, st)
		s.plot(x, r.Bottom()-1, st)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		s.plot(r.X, y, st)
		s.plot(r.Right()-1, y, st)
	}
}

// FillCircle fills an ellipse that reads as a circle on terminal cells.
// Radius is in horizontal cells.
func (s *Screen) FillCircle(cx, cy, radius float64, st Style) {
	if radius < 0.75 {
		s.plot(int(math.Floor(cx)), int(math.Floor(cy)), st)
		return
	}
	ry := radius / cellAspect
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - radius)); x <= int(math.Ceil(cx+radius)); x++ {
			dx := (float64(x) + 0.5 - cx) / radius
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				s.plot(x, y, st)
			}
		}
	}
}

// StrokeCircle outlines an ellipse that reads as a circle on terminal cells.
func (s *Screen) StrokeCircle(cx, cy, radius float64, st Style) {
	if radius < 1.5 {
		s.FillCircle(cx, cy, radius, st)
		return
	}
	ry := radius / cellAspect
	band := 1 / radius
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - radius)); x <= int(math.Ceil(cx+radius)); x++ {
			dx := (float64(x) + 0.5 - cx) / radius
			dy := (float64(y) + 0.5 - cy) / ry
			d := math.Sqrt(dx*dx + dy*dy)
			if d <= 1 && d >= 1-band*1.5 {
				s.plot(x, y, st)
			}
		}
	}
}

// Text draws a string with the style color. Faint text is drawn gray.
func (s *Screen) Text(x, y int, text string, st Style) {
	c := st.Color
	if st.Opacity() < 0.4 {
		c = ColorGray
	}
	i := 0
	for _, r := range text {
		s.SetCell(x+i, y, r, c)
		i++
	}
}

// String converts the screen buffer to a plain string.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns a copy of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
