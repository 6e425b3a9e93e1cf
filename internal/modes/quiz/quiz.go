// Package quiz implements the chat quiz: viewers answer multiple-choice
// questions from the configured bank by typing a letter or number.
package quiz

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/participant"
	"github.com/vovakirdan/live-arcade/internal/session"
)

// ID is the registry id of this mode.
const ID = "quiz"

func init() {
	mode.Register(mode.Info{
		ID:       ID,
		Title:    "Chat Quiz",
		Keywords: []string{"quiz", "trivia", "question", "questions", "answer", "knowledge"},
	}, func(ctx *session.Context) mode.Mode {
		return New(ctx)
	})
}

// Phase is where the current question is in its cycle.
type Phase int

const (
	PhaseAsking Phase = iota
	PhaseReveal
)

// Mode implements the chat quiz.
type Mode struct {
	ctx *session.Context
	cfg config.QuizConfig

	order    []int // Shuffled question indices
	cursor   int
	asked    int
	phase    Phase
	timeLeft float64
	answers  map[string]int
	doubled  map[string]bool
	winners  []string
	score    int
	bot      *participant.Participant
	botDone  bool
}

// New creates a quiz mode bound to a session.
func New(ctx *session.Context) *Mode {
	return &Mode{
		ctx: ctx,
		cfg: ctx.Config.Quiz,
	}
}

// ID returns the unique identifier for this mode.
func (m *Mode) ID() string { return ID }

// Title returns the display name for this mode.
func (m *Mode) Title() string { return "Chat Quiz" }

// Init shuffles the bank and asks the first question.
func (m *Mode) Init() {
	m.order = m.ctx.RNG.Perm(len(m.cfg.Questions))
	m.cursor = 0
	m.asked = 0
	m.score = 0
	m.doubled = make(map[string]bool)
	m.bot = mode.EnsureBots(m.ctx, "quiz", 1)[0]
	m.ask()
}

// Reset restarts the quiz with a fresh shuffle.
func (m *Mode) Reset() { m.Init() }

// Destroy releases nothing; the mode holds no external handles.
func (m *Mode) Destroy() {}

// Question returns the current question.
func (m *Mode) Question() config.Question {
	if len(m.order) == 0 {
		return config.Question{}
	}
	return m.cfg.Questions[m.order[m.cursor]]
}

// Phase returns the current phase.
func (m *Mode) Phase() Phase { return m.phase }

// Answers returns how many participants answered the current question.
func (m *Mode) Answers() int { return len(m.answers) }

// Winners returns who answered the last revealed question correctly.
func (m *Mode) Winners() []string { return m.winners }

func (m *Mode) ask() {
	m.phase = PhaseAsking
	m.timeLeft = m.cfg.QuestionSeconds
	m.answers = make(map[string]int)
	m.botDone = false
	m.asked++
}

// ParseAnswer maps chat text to a choice index: A-D or 1-4, optionally
// followed by more words. It returns -1 for anything else.
func ParseAnswer(text string, choices int) int {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return -1
	}
	tok := strings.ToUpper(strings.Trim(fields[0], "!.)"))
	if len(tok) != 1 {
		return -1
	}
	idx := -1
	switch c := tok[0]; {
	case c >= 'A' && c <= 'D':
		idx = int(c - 'A')
	case c >= '1' && c <= '4':
		idx = int(c - '1')
	}
	if idx >= choices {
		return -1
	}
	return idx
}

// OnChat records the first valid answer of each participant.
func (m *Mode) OnChat(e event.Chat) {
	if m.phase != PhaseAsking {
		return
	}
	idx := ParseAnswer(e.Text, len(m.Question().Choices))
	if idx < 0 {
		return
	}
	if _, done := m.answers[e.ParticipantID]; done {
		return
	}
	mode.Author(m.ctx, e)
	m.answers[e.ParticipantID] = idx
}

// OnGift doubles the gifter's next award.
func (m *Mode) OnGift(e event.Gift) {
	p := mode.Author(m.ctx, e)
	if !m.doubled[p.ID] {
		m.doubled[p.ID] = true
		m.ctx.Notify(fmt.Sprintf("%s has double points!", p.Name()), p.Color)
	}
}

// Update runs the question clock.
func (m *Mode) Update(dt float64, width, height int) {
	if len(m.order) != len(m.cfg.Questions) || m.cursor >= len(m.order) {
		m.ctx.Log.Warn("quiz bank inconsistent, resetting")
		m.Reset()
		return
	}

	m.timeLeft -= dt
	switch m.phase {
	case PhaseAsking:
		// Keep the board moving when nobody plays along.
		if !m.botDone && len(m.answers) == 0 && m.timeLeft <= m.cfg.QuestionSeconds/2 {
			m.botDone = true
			m.answers[m.bot.ID] = m.ctx.RNG.Intn(len(m.Question().Choices))
		}
		if m.timeLeft <= 0 {
			m.reveal(width)
		}
	case PhaseReveal:
		if m.timeLeft <= 0 {
			m.cursor = (m.cursor + 1) % len(m.order)
			if m.cursor == 0 {
				m.order = m.ctx.RNG.Perm(len(m.cfg.Questions))
			}
			m.ask()
		}
	}
}

func (m *Mode) reveal(width int) {
	q := m.Question()
	m.phase = PhaseReveal
	m.timeLeft = m.cfg.RevealSeconds
	m.winners = m.winners[:0]

	// Award in registry order so the outcome does not depend on map order.
	m.ctx.Participants.ForEach(func(p *participant.Participant) bool {
		idx, ok := m.answers[p.ID]
		if !ok || idx != q.Answer {
			return true
		}
		points := m.cfg.CorrectPoints
		if m.doubled[p.ID] {
			points *= 2
			delete(m.doubled, p.ID)
		}
		p.AddScore(points, m.ctx.Now())
		m.score += points
		m.winners = append(m.winners, p.ID)
		return true
	})

	color := core.ColorBrightGreen
	if len(m.winners) == 0 {
		color = core.ColorRed
	} else {
		m.ctx.Effects.SpawnParticles(core.V(float64(width)/2, 6), 10+5*len(m.winners), 1.5, color)
		m.ctx.Effects.Flash(0.3)
	}
	m.ctx.Notify(fmt.Sprintf("Answer %c: %s (%d correct)", 'A'+rune(q.Answer), q.Choices[q.Answer], len(m.winners)), color)
}

// Status returns the question clock for the HUD.
func (m *Mode) Status() mode.Status {
	label := "TIME"
	total := m.cfg.QuestionSeconds
	if m.phase == PhaseReveal {
		label = "NEXT"
		total = m.cfg.RevealSeconds
	}
	progress := 0.0
	if total > 0 {
		progress = core.ClampF(m.timeLeft/total, 0, 1)
	}
	return mode.Status{
		Score:    m.score,
		Progress: progress,
		Label:    label,
		Detail:   fmt.Sprintf("Question %d  Answers %d", m.asked, len(m.answers)),
	}
}
