package quiz

import (
	"testing"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/session"
)

func newMode(t *testing.T) (*Mode, *session.Context) {
	t.Helper()
	cfg := config.Default()
	cfg.Quiz.QuestionSeconds = 10
	cfg.Quiz.RevealSeconds = 2
	cfg.Quiz.CorrectPoints = 10
	ctx := session.New(cfg, nil, 3)
	m := New(ctx)
	m.Init()
	return m, ctx
}

func answer(id, text string) event.Chat {
	return event.Chat{Identity: event.Identity{ParticipantID: id, DisplayName: id}, Text: text}
}

func letter(i int) string { return string(rune('A' + i)) }

func run(m *Mode, seconds float64) {
	for t := 0.0; t < seconds; t += 0.1 {
		m.Update(0.1, 80, 24)
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		text     string
		choices  int
		expected int
	}{
		{"A", 4, 0},
		{"b", 4, 1},
		{"3", 4, 2},
		{"d) final answer", 4, 3},
		{"!c", 4, 2},
		{"D", 3, -1},
		{"5", 4, -1},
		{"apple", 4, -1},
		{"", 4, -1},
		{"  2  ", 4, 1},
	}
	for _, tt := range tests {
		if got := ParseAnswer(tt.text, tt.choices); got != tt.expected {
			t.Errorf("ParseAnswer(%q, %d) = %d, expected %d", tt.text, tt.choices, got, tt.expected)
		}
	}
}

func TestCorrectAnswerScores(t *testing.T) {
	m, ctx := newMode(t)
	q := m.Question()
	wrong := (q.Answer + 1) % len(q.Choices)

	m.OnChat(answer("right", letter(q.Answer)))
	m.OnChat(answer("wrong", letter(wrong)))
	run(m, 10.05)

	if m.Phase() != PhaseReveal {
		t.Fatalf("Phase() = %v, expected reveal", m.Phase())
	}
	if p, _ := ctx.Participants.Get("right"); p.Score != 10 {
		t.Errorf("correct score = %d, expected 10", p.Score)
	}
	if p, _ := ctx.Participants.Get("wrong"); p.Score != 0 {
		t.Errorf("wrong score = %d, expected 0", p.Score)
	}
	if len(m.Winners()) != 1 || m.Winners()[0] != "right" {
		t.Errorf("Winners() = %v, expected [right]", m.Winners())
	}
}

func TestOneAnswerPerParticipant(t *testing.T) {
	m, ctx := newMode(t)
	q := m.Question()
	wrong := (q.Answer + 1) % len(q.Choices)

	m.OnChat(answer("fickle", letter(wrong)))
	m.OnChat(answer("fickle", letter(q.Answer)))
	if m.Answers() != 1 {
		t.Errorf("Answers() = %d, expected 1", m.Answers())
	}
	run(m, 10.05)

	if p, _ := ctx.Participants.Get("fickle"); p.Score != 0 {
		t.Errorf("score = %d, expected 0 (first answer counts)", p.Score)
	}
}

func TestGiftDoublesNextAward(t *testing.T) {
	m, ctx := newMode(t)
	m.OnGift(event.Gift{Identity: event.Identity{ParticipantID: "fan"}, Value: 1, RepeatCount: 1})

	m.OnChat(answer("fan", letter(m.Question().Answer)))
	run(m, 10.05)
	p, _ := ctx.Participants.Get("fan")
	if p.Score != 20 {
		t.Errorf("doubled score = %d, expected 20", p.Score)
	}

	// The double is spent on the first award.
	run(m, 2.05)
	if m.Phase() != PhaseAsking {
		t.Fatalf("Phase() = %v, expected the next question", m.Phase())
	}
	m.OnChat(answer("fan", letter(m.Question().Answer)))
	run(m, 10.05)
	if p.Score != 30 {
		t.Errorf("score after second question = %d, expected 30", p.Score)
	}
}

func TestAnswersIgnoredDuringReveal(t *testing.T) {
	m, _ := newMode(t)
	run(m, 10.05)
	before := m.Answers()
	m.OnChat(answer("late", "A"))
	if m.Answers() != before {
		t.Errorf("Answers() = %d after reveal, expected %d", m.Answers(), before)
	}
}

func TestBotAnswersWhenQuiet(t *testing.T) {
	m, _ := newMode(t)
	run(m, 4)
	if m.Answers() != 0 {
		t.Fatalf("Answers() = %d before halfway, expected 0", m.Answers())
	}
	run(m, 2)
	if m.Answers() != 1 {
		t.Errorf("Answers() = %d after halfway, expected the bot's answer", m.Answers())
	}
}

func TestCyclesThroughBank(t *testing.T) {
	m, _ := newMode(t)
	seen := make(map[string]bool)
	for i := 0; i < len(m.cfg.Questions); i++ {
		seen[m.Question().Prompt] = true
		run(m, 12.05)
	}
	if len(seen) != len(m.cfg.Questions) {
		t.Errorf("distinct questions = %d, expected %d", len(seen), len(m.cfg.Questions))
	}
}

func TestDraw(t *testing.T) {
	m, _ := newMode(t)
	m.OnChat(answer("v", "A"))
	screen := core.NewScreen(80, 24)
	m.Draw(screen, 80, 24)
	before := m.Answers()
	m.Draw(screen, 80, 24)
	if m.Answers() != before {
		t.Errorf("Draw changed state")
	}
}
