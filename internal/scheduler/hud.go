package scheduler

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/meter"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/notify"
)

// Leader is one leaderboard row.
type Leader struct {
	Name  string
	Score int
	Color core.Color
}

// HUD is the read-only snapshot handed to the host once per tick.
type HUD struct {
	ModeID       string
	Title        string
	Status       mode.Status
	Paused       bool
	Hype         float64
	Boosted      bool
	BoostLeft    float64
	Counters     meter.Counters
	Participants int
	Viewers      int
	Elapsed      time.Duration
	Notes        []notify.Note
	Leaders      []Leader
}

// HUD returns the current snapshot.
func (s *Scheduler) HUD() HUD {
	hud := HUD{
		Paused:       s.modes.Paused(),
		Hype:         s.ctx.Hype.Value(),
		Boosted:      s.ctx.Hype.Boosted(),
		BoostLeft:    s.ctx.Hype.BoostRemaining(),
		Counters:     *s.ctx.Counters,
		Participants: s.ctx.Participants.Len(),
		Viewers:      s.ctx.Participants.CountReal(),
		Elapsed:      s.ctx.Now(),
		Notes:        s.ctx.Notes.Notes(),
	}
	if m := s.modes.Active(); m != nil {
		hud.ModeID = m.ID()
		hud.Title = m.Title()
		//nolint:errcheck // A failing Status leaves the zero value
		mode.Protect(func() { hud.Status = m.Status() })
	}
	for _, p := range s.ctx.Participants.Top(3) {
		hud.Leaders = append(hud.Leaders, Leader{Name: p.Name(), Score: p.Score, Color: p.Color})
	}
	return hud
}

const (
	barFull  = '█'
	barEmpty = '░'
)

func bar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(core.ClampF(progress, 0, 1)*float64(width) + 0.5)
	return strings.Repeat(string(barFull), filled) + strings.Repeat(string(barEmpty), width-filled)
}

// drawHUD renders the status line, hype meter, counters and notes.
func (s *Scheduler) drawHUD(dst core.Surface, w, h int) {
	hud := s.HUD()
	white := core.Solid(0, core.ColorBrightWhite)

	// Top line: mode title, score and the mode's own progress bar.
	title := strings.ToUpper(hud.Title)
	if title == "" {
		title = "LIVE ARCADE"
	}
	dst.Text(1, 0, title, core.Solid(0, core.ColorBrightCyan))
	x := 2 + utf8.RuneCountInString(title)
	score := fmt.Sprintf("SCORE %d", hud.Status.Score)
	dst.Text(x, 0, score, white)
	x += len(score) + 2
	if hud.Status.Label != "" {
		label := hud.Status.Label + " "
		dst.Text(x, 0, label, white)
		x += len(label)
		dst.Text(x, 0, bar(hud.Status.Progress, core.Clamp(w/5, 6, 20)), core.Solid(0, core.ColorBrightRed))
	}
	if hud.Status.Detail != "" && h > 3 {
		dst.Text(1, 1, hud.Status.Detail, core.Solid(0, core.ColorGray))
	}

	// Bottom line: hype meter and live counters.
	y := h - 1
	hypeColor := core.ColorMagenta
	label := "HYPE "
	progress := hud.Hype
	if hud.Boosted {
		hypeColor = core.ColorBrightMagenta
		label = fmt.Sprintf("BOOST %.0fs ", hud.BoostLeft)
		progress = s.ctx.Hype.BoostProgress()
	}
	dst.Text(1, y, label, core.Solid(0, hypeColor))
	meterW := core.Clamp(w/4, 6, 24)
	dst.Text(1+len(label), y, bar(progress, meterW), core.Solid(0, hypeColor))
	c := hud.Counters
	counters := fmt.Sprintf("chat %d  likes %d  gifts %d  joins %d  viewers %d", c.Chats, c.Likes, c.Gifts, c.Joins, hud.Viewers)
	dst.Text(3+len(label)+meterW, y, counters, core.Solid(0, core.ColorGray))

	// Notes stack in the top-right corner, newest at the bottom.
	for i, n := range hud.Notes {
		text := n.Text
		if limit := w / 2; utf8.RuneCountInString(text) > limit {
			text = string([]rune(text)[:limit])
		}
		dst.Text(w-1-utf8.RuneCountInString(text), 1+i, text, core.Solid(0, n.Color))
	}

	if len(hud.Leaders) > 0 && h > 8 {
		for i, l := range hud.Leaders {
			dst.Text(1, h-2-len(hud.Leaders)+i, fmt.Sprintf("%d. %s %d", i+1, l.Name, l.Score), core.Solid(0, l.Color))
		}
	}

	if hud.Paused {
		msg := " PAUSED "
		dst.Text((w-len(msg))/2, h/2, msg, core.Solid(0, core.ColorBrightYellow))
	}
}

// drawIdle keeps the screen alive when no mode can draw.
func (s *Scheduler) drawIdle(dst core.Surface, w, h int) {
	t := s.ctx.Clock.Seconds()
	for i := 0; i < 12; i++ {
		x := float64((i*37+int(t*4))%max(1, w))
		y := float64(2 + (i*11)%max(1, h-4))
		dst.FillCircle(x, y, 0.5, core.Style{Glyph: '·', Color: core.ColorGray}.WithAlpha(0.5))
	}
	msg := "waiting for the next game..."
	dst.Text((w-len(msg))/2, h/2, msg, core.Solid(0, core.ColorGray))
}
