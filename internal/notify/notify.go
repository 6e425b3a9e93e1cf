// Package notify keeps the bounded ring of recent event summaries shown
// by the HUD. Gameplay never reads it.
package notify

import (
	"time"

	"github.com/vovakirdan/live-arcade/internal/core"
)

// Default queue length bounds.
const (
	MinCap = 6
	MaxCap = 8
)

// Note is one human-readable event summary.
type Note struct {
	Text  string
	Color core.Color
	At    time.Duration // Session clock time
}

// Queue is a fixed-capacity ring; the oldest note is evicted first.
type Queue struct {
	buf   []Note
	start int
	n     int
}

// NewQueue creates a queue holding at most capacity notes.
// Capacity is clamped to [MinCap, MaxCap].
func NewQueue(capacity int) *Queue {
	return &Queue{buf: make([]Note, core.Clamp(capacity, MinCap, MaxCap))}
}

// Push appends a note, evicting the oldest when full.
func (q *Queue) Push(n Note) {
	if q.n < len(q.buf) {
		q.buf[(q.start+q.n)%len(q.buf)] = n
		q.n++
		return
	}
	q.buf[q.start] = n
	q.start = (q.start + 1) % len(q.buf)
}

// Len returns the number of queued notes.
func (q *Queue) Len() int { return q.n }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return len(q.buf) }

// Notes returns the queued notes, oldest first.
func (q *Queue) Notes() []Note {
	out := make([]Note, q.n)
	for i := 0; i < q.n; i++ {
		out[i] = q.buf[(q.start+i)%len(q.buf)]
	}
	return out
}

// Clear drops every note.
func (q *Queue) Clear() {
	q.start, q.n = 0, 0
}
