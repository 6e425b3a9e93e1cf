package notify

import (
	"fmt"
	"testing"
)

func TestQueueNeverExceedsCap(t *testing.T) {
	for _, capacity := range []int{6, 7, 8} {
		q := NewQueue(capacity)
		for i := 0; i < 1000; i++ {
			q.Push(Note{Text: fmt.Sprintf("n%d", i)})
			if q.Len() > capacity {
				t.Fatalf("cap %d: Len() = %d after %d pushes", capacity, q.Len(), i+1)
			}
		}
		if q.Len() != capacity {
			t.Errorf("cap %d: Len() = %d, expected full queue", capacity, q.Len())
		}
	}
}

func TestQueueEvictsOldest(t *testing.T) {
	q := NewQueue(6)
	for i := 0; i < 9; i++ {
		q.Push(Note{Text: fmt.Sprintf("n%d", i)})
	}

	notes := q.Notes()
	for i, n := range notes {
		expected := fmt.Sprintf("n%d", i+3)
		if n.Text != expected {
			t.Errorf("Notes()[%d] = %q, expected %q", i, n.Text, expected)
		}
	}
}

func TestQueueCapClamped(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
	}{
		{0, MinCap},
		{7, 7},
		{100, MaxCap},
	}
	for _, tt := range tests {
		if got := NewQueue(tt.requested).Cap(); got != tt.expected {
			t.Errorf("NewQueue(%d).Cap() = %d, expected %d", tt.requested, got, tt.expected)
		}
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue(6)
	q.Push(Note{Text: "a"})
	q.Clear()
	if q.Len() != 0 || len(q.Notes()) != 0 {
		t.Error("Clear() should empty the queue")
	}
}
