package participant

import (
	"fmt"
	"testing"
	"time"
)

func TestEnsureIdentityStable(t *testing.T) {
	r := NewRegistry()

	a := r.Ensure(Identity{ID: "u1", DisplayName: "Ann"})
	b := r.Ensure(Identity{ID: "u1", DisplayName: "Someone Else"})

	if a != b {
		t.Fatal("Ensure() returned a different instance for the same id")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", r.Len())
	}
	if a.DisplayName != "Ann" {
		t.Errorf("DisplayName = %q, expected first name to stick", a.DisplayName)
	}
}

func TestDoubleJoinSingleParticipant(t *testing.T) {
	r := NewRegistry()
	r.Ensure(Identity{ID: "viewer-9"})
	r.Ensure(Identity{ID: "viewer-9"})

	if r.Len() != 1 {
		t.Errorf("Len() = %d, expected 1 after two joins", r.Len())
	}
}

func TestEnsureDistinctIDs(t *testing.T) {
	r := NewRegistry()
	const n = 250
	for i := 0; i < n; i++ {
		r.Ensure(Identity{ID: fmt.Sprintf("id-%d", i)})
		// Re-ensure an earlier id to make sure it never grows the registry.
		r.Ensure(Identity{ID: fmt.Sprintf("id-%d", i/2)})
	}
	if r.Len() != n {
		t.Errorf("Len() = %d, expected %d", r.Len(), n)
	}
}

func TestForEachInsertionOrder(t *testing.T) {
	r := NewRegistry()
	ids := []string{"zed", "amy", "mo", "bea"}
	for _, id := range ids {
		r.Ensure(Identity{ID: id})
	}

	var got []string
	r.ForEach(func(p *Participant) bool {
		got = append(got, p.ID)
		return true
	})

	if len(got) != len(ids) {
		t.Fatalf("ForEach visited %d, expected %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("ForEach()[%d] = %q, expected %q", i, got[i], ids[i])
		}
	}

	visited := 0
	r.ForEach(func(p *Participant) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("ForEach did not stop early: visited %d", visited)
	}
}

func TestSpawnDeterministic(t *testing.T) {
	a := NewRegistry().Ensure(Identity{ID: "same"})
	b := NewRegistry().Ensure(Identity{ID: "same"})

	if a.Pos != b.Pos {
		t.Errorf("spawn position differs: %v vs %v", a.Pos, b.Pos)
	}
	if a.Color != b.Color {
		t.Errorf("color differs: %v vs %v", a.Color, b.Color)
	}
	if a.Pos.X < 0 || a.Pos.X > 1 || a.Pos.Y < 0 || a.Pos.Y > 1 {
		t.Errorf("spawn position %v outside the unit plane", a.Pos)
	}
}

func TestEnsureFillsMissingFields(t *testing.T) {
	r := NewRegistry()
	p := r.Ensure(Identity{ID: "bot-1", Ambient: true})
	r.Ensure(Identity{ID: "bot-1", DisplayName: "Real", AvatarURL: "https://a/b.png"})

	if p.DisplayName != "Real" {
		t.Errorf("DisplayName = %q, expected %q", p.DisplayName, "Real")
	}
	if p.AvatarURL != "https://a/b.png" {
		t.Errorf("AvatarURL = %q", p.AvatarURL)
	}
	if p.IsAmbient {
		t.Error("real viewer should take over an ambient id")
	}
}

func TestMonogram(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{"Jane Doe", "x", "JD"},
		{"solo", "x", "S"},
		{"", "user_42", "U4"},
		{"!!!", "x", "?"},
	}
	for _, tt := range tests {
		p := &Participant{ID: tt.id, DisplayName: tt.name}
		if got := p.Monogram(); got != tt.expected {
			t.Errorf("Monogram(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

func TestTop(t *testing.T) {
	r := NewRegistry()
	scores := map[string]int{"a": 5, "b": 50, "c": 0, "d": 20, "e": 50}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		r.Ensure(Identity{ID: id}).AddScore(scores[id], time.Second)
	}

	top := r.Top(3)
	expected := []string{"b", "e", "d"}
	if len(top) != len(expected) {
		t.Fatalf("Top(3) len = %d, expected %d", len(top), len(expected))
	}
	for i, id := range expected {
		if top[i].ID != id {
			t.Errorf("Top(3)[%d] = %q, expected %q", i, top[i].ID, id)
		}
	}
}

func TestCooldown(t *testing.T) {
	c := NewCooldown(250 * time.Millisecond)

	if !c.Allow("p", 0) {
		t.Error("first action should be allowed")
	}
	if c.Allow("p", 100*time.Millisecond) {
		t.Error("action inside cooldown should be throttled")
	}
	if !c.Allow("q", 100*time.Millisecond) {
		t.Error("cooldown must be per participant")
	}
	if !c.Allow("p", 250*time.Millisecond) {
		t.Error("action after cooldown should be allowed")
	}

	c.Reset()
	if !c.Allow("p", 260*time.Millisecond) {
		t.Error("Reset() should clear pending cooldowns")
	}
}
