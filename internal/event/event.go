// Package event defines the closed set of normalized engagement events and
// the normalizer that produces them from loosely shaped upstream payloads.
package event

import "errors"

// ErrMalformedEvent is returned when a payload cannot yield a usable event.
// Callers drop the payload; nothing downstream ever sees it.
var ErrMalformedEvent = errors.New("event: malformed payload")

// Kind identifies which variant a payload should normalize into.
type Kind int

const (
	KindChat Kind = iota
	KindLike
	KindGift
	KindJoin
	KindShare
)

// String returns the canonical wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindChat:
		return "chat"
	case KindLike:
		return "like"
	case KindGift:
		return "gift"
	case KindJoin:
		return "join"
	case KindShare:
		return "share"
	default:
		return "unknown"
	}
}

// ParseKind maps the names upstream bridges use onto a Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "chat", "comment", "message", "msg":
		return KindChat, true
	case "like", "likes":
		return KindLike, true
	case "gift", "donation":
		return KindGift, true
	case "join", "member", "enter":
		return KindJoin, true
	case "share", "social":
		return KindShare, true
	default:
		return 0, false
	}
}

// Identity is the viewer information every event carries.
type Identity struct {
	ParticipantID string
	DisplayName   string
	AvatarURL     string
}

// Name returns the display name, falling back to the participant id.
func (id Identity) Name() string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.ParticipantID
}

// Event is a normalized engagement event. The set of implementations is
// closed: Chat, Like, Gift, Join and Share.
type Event interface {
	Kind() Kind
	Who() Identity
	isEvent()
}

// Chat is a chat message.
type Chat struct {
	Identity
	Text string
}

// Like is a burst of likes.
type Like struct {
	Identity
	Count int
}

// Gift is a virtual gift purchase, possibly repeated in a streak.
type Gift struct {
	Identity
	GiftName    string
	RepeatCount int
	Value       int
}

// Join is a viewer entering the stream.
type Join struct {
	Identity
}

// Share is a viewer sharing the stream.
type Share struct {
	Identity
}

func (Chat) Kind() Kind  { return KindChat }
func (Like) Kind() Kind  { return KindLike }
func (Gift) Kind() Kind  { return KindGift }
func (Join) Kind() Kind  { return KindJoin }
func (Share) Kind() Kind { return KindShare }

func (e Chat) Who() Identity  { return e.Identity }
func (e Like) Who() Identity  { return e.Identity }
func (e Gift) Who() Identity  { return e.Identity }
func (e Join) Who() Identity  { return e.Identity }
func (e Share) Who() Identity { return e.Identity }

func (Chat) isEvent()  {}
func (Like) isEvent()  {}
func (Gift) isEvent()  {}
func (Join) isEvent()  {}
func (Share) isEvent() {}

// Total returns the gift's total value across the streak.
func (g Gift) Total() int {
	return g.Value * g.RepeatCount
}
