package source

import (
	"sync"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 256

// Hub fans every message out to all subscribers. One upstream connection
// can feed any number of independent sessions, one per SSH viewer.
// Safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	next   uint64
	buffer int
	last   *Status
}

// NewHub creates a hub. buffer bounds each subscriber's queue.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. It receives the last known status
// first so a late session knows whether the feed is up.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	s := &Subscription{
		id:       h.next,
		hub:      h,
		messages: make(chan Message, h.buffer),
		done:     make(chan struct{}),
	}
	h.subs[s.id] = s
	if h.last != nil {
		s.send(*h.last)
	}
	return s
}

// Event delivers a raw event to every subscriber.
func (h *Hub) Event(r Raw) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		s.send(r)
	}
}

// Status delivers a status change to every subscriber and remembers it.
func (h *Hub) Status(st Status) {
	h.mu.Lock()
	h.last = &st
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		s.send(st)
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Subscription is one subscriber's bounded queue.
type Subscription struct {
	id       uint64
	hub      *Hub
	messages chan Message
	done     chan struct{}
	doneOnce sync.Once
	dropped  int
	mu       sync.Mutex
}

// Messages returns the channel the host reads from.
func (s *Subscription) Messages() <-chan Message {
	return s.messages
}

// Done returns a channel closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped reports how many messages were discarded because the subscriber
// fell behind.
func (s *Subscription) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close unregisters the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
		s.hub.remove(s.id)
	})
}

// send never blocks. When the queue is full the oldest message is dropped.
func (s *Subscription) send(m Message) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.messages <- m:
		return
	default:
	}
	select {
	case <-s.messages:
		s.dropped++
	default:
	}
	select {
	case s.messages <- m:
	default:
		s.dropped++
	}
}
