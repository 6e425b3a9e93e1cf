package router

import (
	"github.com/vovakirdan/live-arcade/internal/event"
)

// Ingest normalizes a raw payload and applies it. Malformed payloads are
// dropped with a debug log and reported as event.ErrMalformedEvent.
func (r *Router) Ingest(kind event.Kind, payload []byte) error {
	e, err := event.Normalize(payload, kind)
	if err != nil {
		r.dropped++
		r.ctx.Log.Debug("dropped event", "kind", kind, "error", err)
		return err
	}
	return r.Apply(e)
}

// OnChatRaw ingests a raw chat payload.
func (r *Router) OnChatRaw(payload []byte) error { return r.Ingest(event.KindChat, payload) }

// OnLikeRaw ingests a raw like payload.
func (r *Router) OnLikeRaw(payload []byte) error { return r.Ingest(event.KindLike, payload) }

// OnGiftRaw ingests a raw gift payload.
func (r *Router) OnGiftRaw(payload []byte) error { return r.Ingest(event.KindGift, payload) }

// OnJoinRaw ingests a raw join payload.
func (r *Router) OnJoinRaw(payload []byte) error { return r.Ingest(event.KindJoin, payload) }

// OnShareRaw ingests a raw share payload.
func (r *Router) OnShareRaw(payload []byte) error { return r.Ingest(event.KindShare, payload) }
