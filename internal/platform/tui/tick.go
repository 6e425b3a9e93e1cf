// Package tui provides the Bubble Tea host for live arcade sessions.
// It turns the repaint signal into scheduler ticks, drains the event feed on
// the same goroutine, and maps host keys to session actions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/live-arcade/internal/source"
)

// maxDrain bounds how many queued feed messages are applied per wake-up.
const maxDrain = 64

// TickMsg is the repaint signal.
type TickMsg time.Time

// feedMsg carries one message read from the session's subscription.
type feedMsg struct {
	msg source.Message
}

// feedClosedMsg is sent once the subscription has ended.
type feedClosedMsg struct{}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate < 1 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForMessage blocks until the subscription yields a message or ends.
func waitForMessage(sub *source.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-sub.Messages():
			return feedMsg{msg: msg}
		case <-sub.Done():
			return feedClosedMsg{}
		}
	}
}

// drain applies whatever else is already queued, up to maxDrain messages.
func drain(sub *source.Subscription, apply func(source.Message)) {
	if sub == nil {
		return
	}
	for range maxDrain {
		select {
		case msg := <-sub.Messages():
			apply(msg)
		default:
			return
		}
	}
}
