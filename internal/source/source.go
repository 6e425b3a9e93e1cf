// Package source is the boundary to the live platform. Sources turn
// upstream traffic into Raw messages and connection status; they never
// touch a session. The host drains a Hub subscription on its frame goroutine
// and hands each Raw to the router.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/live-arcade/internal/event"
)

// ErrConnectionLost marks a status reporting that the upstream went away.
var ErrConnectionLost = errors.New("source: connection lost")

// ErrUnknownKind is returned for an envelope whose kind is not recognized.
var ErrUnknownKind = errors.New("source: unknown event kind")

// Message is anything a source delivers to the host.
type Message interface {
	message()
}

// Raw is one unnormalized upstream event.
type Raw struct {
	Kind    event.Kind
	Payload []byte
}

// Status reports a change in upstream connectivity. Err wraps
// ErrConnectionLost while the source is down.
type Status struct {
	Source    string
	Connected bool
	Err       error
}

func (Raw) message()    {}
func (Status) message() {}

// Sink receives what a source produces. Implementations must be safe for
// concurrent use; sources call them from their own goroutines.
type Sink interface {
	Event(r Raw)
	Status(s Status)
}

// Source produces messages into a sink until ctx is done or the source is
// exhausted.
type Source interface {
	Name() string
	Run(ctx context.Context, sink Sink) error
}

// Envelope field variants, canonical first.
var (
	kindPaths = []string{"type", "event", "kind", "eventType"}
	dataPaths = []string{"data", "payload", "body"}
)

// ParseEnvelope splits an upstream frame into its kind and payload. The
// payload is the nested data object when present, else the frame itself.
func ParseEnvelope(frame []byte) (Raw, error) {
	if !gjson.ValidBytes(frame) {
		return Raw{}, event.ErrMalformedEvent
	}
	root := gjson.ParseBytes(frame)
	var name string
	for _, p := range kindPaths {
		if v := root.Get(p); v.Type == gjson.String {
			name = v.String()
			break
		}
	}
	kind, ok := event.ParseKind(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return Raw{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	for _, p := range dataPaths {
		if v := root.Get(p); v.IsObject() {
			return Raw{Kind: kind, Payload: []byte(v.Raw)}, nil
		}
	}
	return Raw{Kind: kind, Payload: frame}, nil
}
