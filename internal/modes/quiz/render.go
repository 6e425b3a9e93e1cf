package quiz

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Draw renders the prompt, the choices and a live tally.
func (m *Mode) Draw(dst core.Surface, width, height int) {
	q := m.Question()
	if len(q.Choices) == 0 {
		return
	}

	y := 3
	for _, line := range wrap(q.Prompt, max(10, width-8)) {
		dst.Text((width-len([]rune(line)))/2, y, line, core.Solid(0, core.ColorBrightWhite))
		y++
	}
	y += 1

	tally := make([]int, len(q.Choices))
	for _, idx := range m.answers {
		if idx >= 0 && idx < len(tally) {
			tally[idx]++
		}
	}

	boxW := max(12, (width-6)/2)
	boxH := 3
	for i, choice := range q.Choices {
		col, row := i%2, i/2
		x := 2 + col*(boxW+2)
		by := y + row*(boxH+1)
		color := core.ColorCyan
		if m.phase == PhaseReveal {
			color = core.ColorGray
			if i == q.Answer {
				color = core.ColorBrightGreen
			}
		}
		box := core.NewRect(x, by, boxW, boxH)
		dst.StrokeRect(box, core.Solid(0, color))
		dst.Text(x+2, by+1, fmt.Sprintf("%c) %s", 'A'+rune(i), choice), core.Solid(0, color))

		if n := tally[i]; n > 0 {
			bar := max(1, min(boxW-4, n))
			dst.Text(x+boxW-4-bar, by+2, strings.Repeat("▪", bar), core.Solid(0, color))
			dst.Text(x+boxW-4, by+2, fmt.Sprintf("%3d", n), core.Solid(0, color))
		}
	}

	if m.phase == PhaseReveal && len(m.winners) > 0 {
		var names []string
		for _, id := range m.winners {
			if p, ok := m.ctx.Participants.Get(id); ok {
				names = append(names, p.Name())
			}
			if len(names) == 5 {
				break
			}
		}
		msg := "Correct: " + strings.Join(names, ", ")
		if extra := len(m.winners) - len(names); extra > 0 {
			msg += fmt.Sprintf(" +%d", extra)
		}
		dst.Text((width-len([]rune(msg)))/2, height-3, msg, core.Solid(0, core.ColorBrightGreen))
	}
}

// wrap breaks text into lines no wider than w runes.
func wrap(text string, w int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		r := []rune(word)
		if len(cur) > 0 && len(cur)+1+len(r) > w {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, r...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
