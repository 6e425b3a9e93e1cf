package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	gws "github.com/gorilla/websocket"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/event"
)

// recorder is a Sink that queues everything it receives.
type recorder struct {
	events   chan Raw
	statuses chan Status
}

func newRecorder() *recorder {
	return &recorder{events: make(chan Raw, 256), statuses: make(chan Status, 256)}
}

func (r *recorder) Event(raw Raw) {
	select {
	case r.events <- raw:
	default:
	}
}

func (r *recorder) Status(s Status) {
	select {
	case r.statuses <- s:
	default:
	}
}

func (r *recorder) nextEvent(t *testing.T) Raw {
	t.Helper()
	select {
	case raw := <-r.events:
		return raw
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for an event")
		return Raw{}
	}
}

func (r *recorder) nextLost(t *testing.T) Status {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case s := <-r.statuses:
			if !s.Connected {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a lost status")
			return Status{}
		}
	}
}

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		kind     event.Kind
		payload  string
		expected error
	}{
		{"nested data", `{"type":"chat","data":{"userId":"a"}}`, event.KindChat, `{"userId":"a"}`, nil},
		{"flat", `{"event":"like","userId":"a","count":3}`, event.KindLike, `{"event":"like","userId":"a","count":3}`, nil},
		{"alias kind", `{"type":"Comment","payload":{"userId":"a"}}`, event.KindChat, `{"userId":"a"}`, nil},
		{"gift", `{"kind":"gift","body":{"userId":"a"}}`, event.KindGift, `{"userId":"a"}`, nil},
		{"unknown kind", `{"type":"roomStats"}`, 0, "", ErrUnknownKind},
		{"no kind", `{"userId":"a"}`, 0, "", ErrUnknownKind},
		{"not json", `hello`, 0, "", event.ErrMalformedEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseEnvelope([]byte(tt.frame))
			if !errors.Is(err, tt.expected) {
				t.Fatalf("ParseEnvelope() error = %v, expected %v", err, tt.expected)
			}
			if err != nil {
				return
			}
			if raw.Kind != tt.kind || string(raw.Payload) != tt.payload {
				t.Errorf("ParseEnvelope() = (%v, %s), expected (%v, %s)", raw.Kind, raw.Payload, tt.kind, tt.payload)
			}
		})
	}
}

func TestHubFanOut(t *testing.T) {
	h := NewHub(8)
	a, b := h.Subscribe(), h.Subscribe()
	if h.Count() != 2 {
		t.Fatalf("Count() = %d, expected 2", h.Count())
	}

	h.Event(Raw{Kind: event.KindLike, Payload: []byte(`{}`)})
	for _, s := range []*Subscription{a, b} {
		select {
		case m := <-s.Messages():
			if raw, ok := m.(Raw); !ok || raw.Kind != event.KindLike {
				t.Errorf("message = %#v, expected a like", m)
			}
		default:
			t.Errorf("subscriber %d got nothing", s.id)
		}
	}

	a.Close()
	a.Close()
	if h.Count() != 1 {
		t.Errorf("Count() = %d after Close, expected 1", h.Count())
	}
	h.Event(Raw{Kind: event.KindChat})
	if len(a.Messages()) != 0 {
		t.Errorf("closed subscriber still receives")
	}
}

func TestHubDropsOldest(t *testing.T) {
	h := NewHub(2)
	s := h.Subscribe()
	for i := 0; i < 3; i++ {
		h.Event(Raw{Kind: event.Kind(i)})
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, expected 1", s.Dropped())
	}
	first := (<-s.Messages()).(Raw)
	if first.Kind != event.Kind(1) {
		t.Errorf("oldest kept = %v, expected %v", first.Kind, event.Kind(1))
	}
}

func TestHubReplaysLastStatus(t *testing.T) {
	h := NewHub(4)
	h.Status(Status{Source: "demo", Connected: true})
	s := h.Subscribe()
	m := <-s.Messages()
	if st, ok := m.(Status); !ok || !st.Connected {
		t.Errorf("first message = %#v, expected the connected status", m)
	}
}

func TestListenerRoutes(t *testing.T) {
	rec := newRecorder()
	srv := httptest.NewServer(NewListener(":0", nil).Handler(rec))
	defer srv.Close()

	tests := []struct {
		name     string
		path     string
		body     string
		expected int
	}{
		{"chat", "/events/chat", `{"userId":"a","comment":"hi"}`, http.StatusAccepted},
		{"alias", "/events/comment", `{"userId":"b","comment":"yo"}`, http.StatusAccepted},
		{"unknown kind", "/events/poll", `{"userId":"a"}`, http.StatusNotFound},
		{"malformed", "/events/like", `{"count":3}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST %s: %v", tt.path, err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.expected {
				t.Errorf("POST %s = %d, expected %d", tt.path, resp.StatusCode, tt.expected)
			}
		})
	}

	if got := rec.nextEvent(t); got.Kind != event.KindChat {
		t.Errorf("first event kind = %v, expected chat", got.Kind)
	}
	if got := rec.nextEvent(t); got.Kind != event.KindChat {
		t.Errorf("second event kind = %v, expected chat", got.Kind)
	}
	if len(rec.events) != 0 {
		t.Errorf("rejected posts reached the sink")
	}

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q, expected 200 ok", resp.StatusCode, body)
	}
}

func TestListenerWebsocket(t *testing.T) {
	rec := newRecorder()
	srv := httptest.NewServer(NewListener(":0", nil).Handler(rec))
	defer srv.Close()

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	frames := []string{
		`{"type":"roomStats"}`,
		`{"type":"gift","data":{"userId":"g","giftName":"Rose"}}`,
	}
	for _, f := range frames {
		if err := conn.WriteMessage(gws.TextMessage, []byte(f)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}
	if got := rec.nextEvent(t); got.Kind != event.KindGift {
		t.Errorf("event kind = %v, expected gift", got.Kind)
	}
}

func TestDialerReconnects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		//nolint:errcheck
		c.Write(r.Context(), websocket.MessageText, []byte(`{"type":"chat","data":{"userId":"u","comment":"hi"}}`))
		c.Close(websocket.StatusNormalClosure, "bye")
	}))
	defer srv.Close()

	rec := newRecorder()
	d := NewDialer(srv.URL, 10*time.Millisecond, 40*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, rec) }()

	rec.nextEvent(t)
	lost := rec.nextLost(t)
	if !errors.Is(lost.Err, ErrConnectionLost) {
		t.Errorf("lost status error = %v, expected ErrConnectionLost", lost.Err)
	}
	rec.nextEvent(t)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, expected nil after cancel", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run() did not return after cancel")
	}
	if d.conn != nil {
		t.Errorf("connection still open after Run returned")
	}
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	lines := strings.Join([]string{
		`{"type":"join","at":0,"data":{"userId":"a"}}`,
		`not json`,
		``,
		`{"type":"like","at":20,"data":{"userId":"a","count":4}}`,
		`{"type":"share","data":{"userId":"b"}}`,
	}, "\n")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	if err := NewReplay(path, 50, nil).Run(context.Background(), rec); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	expected := []event.Kind{event.KindJoin, event.KindLike, event.KindShare}
	for i, k := range expected {
		if got := rec.nextEvent(t); got.Kind != k {
			t.Errorf("event %d kind = %v, expected %v", i, got.Kind, k)
		}
	}
	if lost := rec.nextLost(t); !errors.Is(lost.Err, ErrConnectionLost) {
		t.Errorf("final status = %+v, expected connection lost", lost)
	}
}

func TestReplayMissingFile(t *testing.T) {
	err := NewReplay(filepath.Join(t.TempDir(), "nope.jsonl"), 1, nil).Run(context.Background(), newRecorder())
	if err == nil {
		t.Errorf("Run() error = nil, expected an open failure")
	}
}

func TestDemoDeterministic(t *testing.T) {
	a := NewDemo(10, 77, "!attack", "!join")
	b := NewDemo(10, 77, "!attack", "!join")
	kinds := make(map[event.Kind]bool)
	for i := 0; i < 500; i++ {
		ra, rb := a.Next(), b.Next()
		if ra.Kind != rb.Kind || !bytes.Equal(ra.Payload, rb.Payload) {
			t.Fatalf("event %d differs between equal seeds", i)
		}
		if _, err := event.Normalize(ra.Payload, ra.Kind); err != nil {
			t.Fatalf("event %d does not normalize: %v", i, err)
		}
		kinds[ra.Kind] = true
	}
	if len(kinds) != 5 {
		t.Errorf("demo produced %d kinds, expected all 5", len(kinds))
	}
}

func TestFromConfig(t *testing.T) {
	feed := config.Default().Feed
	feed.URL = "ws://localhost:9/feed"
	feed.Listen = "127.0.0.1:0"
	feed.Replay = "capture.jsonl"
	feed.Demo = true

	sources := FromConfig(feed, config.Default().Settings, 1, nil)
	var names []string
	for _, s := range sources {
		names = append(names, strings.Fields(s.Name())[0])
	}
	if got := strings.Join(names, ","); got != "dial,listen,replay,demo" {
		t.Errorf("FromConfig() = %s, expected dial,listen,replay,demo", got)
	}
}
