package mode

import (
	"fmt"

	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/participant"
	"github.com/vovakirdan/live-arcade/internal/session"
)

var botNames = []string{"Pixel", "Bleep", "Gizmo", "Sprocket", "Nova", "Widget", "Chip", "Rivet", "Bolt", "Sparky"}

// Author returns the participant behind an event, registering it if the
// router has not already.
func Author(ctx *session.Context, e event.Event) *participant.Participant {
	who := e.Who()
	return ctx.Participants.Ensure(participant.Identity{
		ID:          who.ParticipantID,
		DisplayName: who.DisplayName,
		AvatarURL:   who.AvatarURL,
	})
}

// EnsureBots registers n ambient participants with ids prefix-0..prefix-(n-1)
// and returns them. Repeated calls return the same participants.
func EnsureBots(ctx *session.Context, prefix string, n int) []*participant.Participant {
	n = max(0, n)
	bots := make([]*participant.Participant, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s-bot", botNames[i%len(botNames)])
		bots = append(bots, ctx.SpawnAmbient(fmt.Sprintf("%s-%d", prefix, i), name))
	}
	return bots
}
