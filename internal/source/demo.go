package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/live-arcade/internal/event"
)

var demoNames = []string{
	"Ada", "Byte Knight", "Cosmo", "Dot", "Echo", "Fizz", "Glitch", "Hex",
	"Ion", "Jett", "Kilo", "Lumen", "Mochi", "Nyx", "Orbit", "Pixie",
}

var demoGifts = []string{"Rose", "Heart", "Rocket", "Crown", "Galaxy"}

// Demo generates a plausible synthetic audience. The same seed always
// produces the same event sequence.
type Demo struct {
	Rate          float64 // Events per second
	ActionCommand string
	JoinCommand   string

	rng *rand.Rand
}

// NewDemo creates a seeded demo feed.
func NewDemo(rate float64, seed int64, actionCommand, joinCommand string) *Demo {
	if rate <= 0 {
		rate = 4
	}
	return &Demo{
		Rate:          rate,
		ActionCommand: actionCommand,
		JoinCommand:   joinCommand,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Name identifies the source in status messages.
func (d *Demo) Name() string { return "demo" }

// Run emits events at Rate until ctx is done.
func (d *Demo) Run(ctx context.Context, sink Sink) error {
	sink.Status(Status{Source: d.Name(), Connected: true})
	ticker := time.NewTicker(time.Duration(float64(time.Second) / d.Rate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sink.Event(d.Next())
		}
	}
}

// Next returns the next synthetic event as a canonical payload.
func (d *Demo) Next() Raw {
	n := d.rng.Intn(len(demoNames))
	who := event.Identity{
		ParticipantID: fmt.Sprintf("demo-%d", n),
		DisplayName:   demoNames[n],
	}

	var e event.Event
	switch roll := d.rng.Float64(); {
	case roll < 0.30:
		e = event.Chat{Identity: who, Text: d.ActionCommand}
	case roll < 0.50:
		e = event.Chat{Identity: who, Text: d.chatter()}
	case roll < 0.78:
		e = event.Like{Identity: who, Count: 1 + d.rng.Intn(15)}
	case roll < 0.86:
		e = event.Gift{
			Identity:    who,
			GiftName:    demoGifts[d.rng.Intn(len(demoGifts))],
			RepeatCount: 1 + d.rng.Intn(12),
			Value:       []int{1, 1, 5, 20, 100}[d.rng.Intn(5)],
		}
	case roll < 0.90 && d.JoinCommand != "":
		e = event.Chat{Identity: who, Text: d.JoinCommand}
	case roll < 0.97:
		e = event.Join{Identity: who}
	default:
		e = event.Share{Identity: who}
	}
	return Raw{Kind: e.Kind(), Payload: event.Payload(e)}
}

func (d *Demo) chatter() string {
	lines := []string{"hi!", "let's go", "gg", "A", "B", "C", "D", "1", "2", "wow", "lol", "hype"}
	return lines[d.rng.Intn(len(lines))]
}
