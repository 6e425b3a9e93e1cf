package core

import "hash/fnv"

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// participantPalette is the set of colors handed out to viewers.
// Gray and default are excluded so participants never blend into the HUD.
var participantPalette = []Color{
	ColorRed,
	ColorGreen,
	ColorYellow,
	ColorBlue,
	ColorMagenta,
	ColorCyan,
	ColorBrightRed,
	ColorBrightGreen,
	ColorBrightYellow,
	ColorBrightBlue,
	ColorBrightMagenta,
	ColorBrightCyan,
	ColorOrange,
}

// HashString returns a stable 64-bit FNV-1a hash of s.
func HashString(s string) uint64 {
	h := fnv.New64a()
	//nolint:errcheck // hash.Hash never returns an error
	h.Write([]byte(s))
	return h.Sum64()
}

// ColorFor derives a palette color from an identity string.
// The same id always yields the same color.
func ColorFor(id string) Color {
	return participantPalette[HashString(id)%uint64(len(participantPalette))]
}
