package router

import (
	"errors"
	"testing"

	"github.com/vovakirdan/live-arcade/internal/config"
	"github.com/vovakirdan/live-arcade/internal/core"
	"github.com/vovakirdan/live-arcade/internal/event"
	"github.com/vovakirdan/live-arcade/internal/mode"
	"github.com/vovakirdan/live-arcade/internal/session"
)

type fakeMode struct {
	chats  []string
	joins  []string
	likes  int
	gifts  int
	shares int
}

func (f *fakeMode) ID() string                      { return "fake" }
func (f *fakeMode) Title() string                   { return "Fake" }
func (f *fakeMode) Init()                           {}
func (f *fakeMode) Reset()                          {}
func (f *fakeMode) Update(dt float64, w, h int)     {}
func (f *fakeMode) Draw(dst core.Surface, w, h int) {}
func (f *fakeMode) Destroy()                        {}
func (f *fakeMode) Status() mode.Status             { return mode.Status{} }
func (f *fakeMode) OnLike(e event.Like)             { f.likes += e.Count }
func (f *fakeMode) OnGift(e event.Gift)             { f.gifts++ }
func (f *fakeMode) OnJoin(e event.Join)             { f.joins = append(f.joins, e.ParticipantID) }
func (f *fakeMode) OnShare(e event.Share)           { f.shares++ }

func (f *fakeMode) OnChat(e event.Chat) {
	if e.Text == "boom" {
		panic("hook exploded")
	}
	f.chats = append(f.chats, e.Text)
}

// quietMode implements no hooks at all.
type quietMode struct{}

func (quietMode) ID() string                      { return "quiet" }
func (quietMode) Title() string                   { return "Quiet" }
func (quietMode) Init()                           {}
func (quietMode) Reset()                          {}
func (quietMode) Update(dt float64, w, h int)     {}
func (quietMode) Draw(dst core.Surface, w, h int) {}
func (quietMode) Destroy()                        {}
func (quietMode) Status() mode.Status             { return mode.Status{} }

type holder struct{ m mode.Mode }

func (h holder) Active() mode.Mode { return h.m }

func newRouter(m mode.Mode) (*Router, *session.Context) {
	ctx := session.New(config.Default(), nil, 1)
	return New(ctx, holder{m}), ctx
}

func TestHookFailureIsIsolated(t *testing.T) {
	f := &fakeMode{}
	r, ctx := newRouter(f)

	err := r.OnChatRaw([]byte(`{"userId":"a","comment":"boom"}`))
	if !errors.Is(err, ErrHookFailure) {
		t.Fatalf("OnChatRaw(boom) = %v, expected ErrHookFailure", err)
	}
	var pe *mode.PanicError
	if !errors.As(err, &pe) {
		t.Errorf("error %v does not carry the recovered panic", err)
	}

	if err := r.OnChatRaw([]byte(`{"userId":"b","comment":"hello"}`)); err != nil {
		t.Fatalf("OnChatRaw(hello) = %v, expected nil", err)
	}
	if len(f.chats) != 1 || f.chats[0] != "hello" {
		t.Errorf("chats = %v, expected [hello]", f.chats)
	}
	if ctx.Participants.Len() != 2 {
		t.Errorf("Participants.Len() = %d, expected 2", ctx.Participants.Len())
	}
	if ctx.Counters.Chats != 2 {
		t.Errorf("Counters.Chats = %d, expected 2 (failed hook still counts)", ctx.Counters.Chats)
	}
	if _, _, failures := r.Stats(); failures != 1 {
		t.Errorf("failures = %d, expected 1", failures)
	}
}

func TestMalformedDropped(t *testing.T) {
	f := &fakeMode{}
	r, ctx := newRouter(f)

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `hello`},
		{"no id", `{"comment":"hi"}`},
		{"empty", ``},
		{"array", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.OnChatRaw([]byte(tt.payload)); !errors.Is(err, event.ErrMalformedEvent) {
				t.Errorf("OnChatRaw(%q) = %v, expected ErrMalformedEvent", tt.payload, err)
			}
		})
	}
	if ctx.Participants.Len() != 0 || len(f.chats) != 0 {
		t.Errorf("malformed payloads reached the session")
	}
	if _, dropped, _ := r.Stats(); dropped != len(tests) {
		t.Errorf("dropped = %d, expected %d", dropped, len(tests))
	}
}

func TestRoutesEveryKind(t *testing.T) {
	f := &fakeMode{}
	r, ctx := newRouter(f)

	r.OnChatRaw([]byte(`{"userId":"a","comment":"hi"}`))    //nolint:errcheck
	r.OnLikeRaw([]byte(`{"userId":"a","likeCount":5}`))     //nolint:errcheck
	r.OnGiftRaw([]byte(`{"userId":"b","giftName":"Rose"}`)) //nolint:errcheck
	r.OnJoinRaw([]byte(`{"userId":"c"}`))                   //nolint:errcheck
	r.OnShareRaw([]byte(`{"userId":"d"}`))                  //nolint:errcheck

	if len(f.chats) != 1 || f.likes != 5 || f.gifts != 1 || len(f.joins) != 1 || f.shares != 1 {
		t.Errorf("hooks = %+v, expected one of each", f)
	}
	c := ctx.Counters
	if c.Chats != 1 || c.Likes != 5 || c.Gifts != 1 || c.Joins != 1 || c.Shares != 1 {
		t.Errorf("Counters = %+v, expected one of each and 5 likes", *c)
	}
	if ctx.Hype.Value() <= 0 {
		t.Errorf("Hype.Value() = %v, expected charged", ctx.Hype.Value())
	}
	if ctx.Notes.Len() == 0 {
		t.Errorf("Notes.Len() = 0, expected gift/join/share notes")
	}
}

func TestJoinCommandAlsoJoins(t *testing.T) {
	f := &fakeMode{}
	r, ctx := newRouter(f)
	id := event.Identity{ParticipantID: "v", DisplayName: "Vee"}

	if err := r.Apply(event.Chat{Identity: id, Text: "!JOIN"}); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if len(f.chats) != 1 || len(f.joins) != 1 || f.joins[0] != "v" {
		t.Errorf("chats=%v joins=%v, expected one of each", f.chats, f.joins)
	}

	// The command path matches a real Join event.
	plain, plainCtx := newRouter(&fakeMode{})
	plain.Apply(event.Join{Identity: id}) //nolint:errcheck
	if ctx.Counters.Joins != plainCtx.Counters.Joins {
		t.Errorf("Counters.Joins = %d, expected %d", ctx.Counters.Joins, plainCtx.Counters.Joins)
	}
	if ctx.Counters.Chats != 1 {
		t.Errorf("Counters.Chats = %d, expected 1", ctx.Counters.Chats)
	}
	joined := false
	for _, n := range ctx.Notes.Notes() {
		if n.Text == "Vee joined" {
			joined = true
		}
	}
	if !joined {
		t.Errorf("Notes() = %v, expected a joined note", ctx.Notes.Notes())
	}
	if handled, _, _ := r.Stats(); handled != 1 {
		t.Errorf("Stats() handled = %d, expected 1", handled)
	}
}

func TestEnsureStampsLastAction(t *testing.T) {
	r, ctx := newRouter(&fakeMode{})
	ctx.Clock.Advance(2.5)
	r.Apply(event.Share{Identity: event.Identity{ParticipantID: "s"}}) //nolint:errcheck
	p, ok := ctx.Participants.Get("s")
	if !ok {
		t.Fatalf("participant not registered")
	}
	if p.LastAction != ctx.Now() {
		t.Errorf("LastAction = %v, expected %v", p.LastAction, ctx.Now())
	}
}

func TestModeWithoutHooks(t *testing.T) {
	r, ctx := newRouter(&quietMode{})
	if err := r.Apply(event.Like{Identity: event.Identity{ParticipantID: "x"}, Count: 1}); err != nil {
		t.Errorf("Apply() = %v, expected nil", err)
	}
	if ctx.Counters.Likes != 1 {
		t.Errorf("Counters.Likes = %d, expected 1", ctx.Counters.Likes)
	}
}

func TestNoActiveMode(t *testing.T) {
	r, ctx := newRouter(nil)
	if err := r.Apply(event.Join{Identity: event.Identity{ParticipantID: "x"}}); err != nil {
		t.Errorf("Apply() = %v, expected nil", err)
	}
	if ctx.Participants.Len() != 1 {
		t.Errorf("Participants.Len() = %d, expected 1", ctx.Participants.Len())
	}
}

func TestBoostNotifies(t *testing.T) {
	r, ctx := newRouter(&fakeMode{})
	for i := 0; i < 200 && !ctx.Hype.Boosted(); i++ {
		r.Apply(event.Gift{Identity: event.Identity{ParticipantID: "g"}, RepeatCount: 1}) //nolint:errcheck
	}
	if !ctx.Hype.Boosted() {
		t.Fatalf("Boosted() = false after many gifts")
	}
	found := false
	for _, n := range ctx.Notes.Notes() {
		if n.Text == "HYPE BOOST!" {
			found = true
		}
	}
	if !found {
		t.Errorf("no boost note in %v", ctx.Notes.Notes())
	}
}
