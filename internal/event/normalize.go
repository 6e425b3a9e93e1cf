package event

import (
	"math"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Field limits applied after trimming.
const (
	MaxIDLen     = 128
	MaxNameLen   = 48
	MaxTextLen   = 200
	MaxGiftLen   = 48
	MaxURLLen    = 512
	MaxCount     = 100000
	MaxGiftValue = 1000000
)

// Known field-name variants, canonical name first. Re-normalizing a
// canonical payload therefore always reads back the same values.
var (
	idPaths = []string{
		"participantId", "userId", "uniqueId",
		"user.userId", "user.uniqueId", "user.id",
		"viewerId", "sender.id", "author.id",
	}
	namePaths = []string{
		"displayName", "nickname", "user.nickname",
		"user.displayName", "sender.name", "author.name", "user.uniqueId",
	}
	avatarPaths = []string{
		"avatarUrl", "profilePictureUrl", "user.profilePictureUrl",
		"userDetails.profilePictureUrls.0", "user.avatarThumb.urlList.0",
		"user.avatar.url", "avatar.url", "avatar",
	}

	textPaths  = []string{"text", "comment", "message", "content", "msg"}
	countPaths = []string{"count", "likeCount", "likes"}
	giftPaths  = []string{"giftName", "gift.name", "giftDetails.giftName", "name"}

	repeatPaths = []string{
		"repeatCount", "repeat_count", "gift.repeatCount", "comboCount", "count",
	}
	valuePaths = []string{
		"value", "diamondCount", "gift.diamondCount",
		"giftDetails.diamondCount", "coins", "amount",
	}
)

// Normalize converts a raw upstream payload into an Event of the given kind.
// Missing or mistyped fields fall back to "", 1 or 0; only a payload that is
// not JSON or that yields no participant id is rejected with ErrMalformedEvent.
func Normalize(raw []byte, kind Kind) (Event, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil, ErrMalformedEvent
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, ErrMalformedEvent
	}

	id := Identity{
		ParticipantID: cleanText(firstString(root, idPaths), MaxIDLen),
		DisplayName:   cleanText(firstString(root, namePaths), MaxNameLen),
		AvatarURL:     cleanURL(firstString(root, avatarPaths)),
	}
	if id.ParticipantID == "" {
		return nil, ErrMalformedEvent
	}

	switch kind {
	case KindChat:
		return Chat{Identity: id, Text: cleanText(firstString(root, textPaths), MaxTextLen)}, nil
	case KindLike:
		return Like{Identity: id, Count: firstInt(root, countPaths, 1, 1, MaxCount)}, nil
	case KindGift:
		return Gift{
			Identity:    id,
			GiftName:    cleanText(firstString(root, giftPaths), MaxGiftLen),
			RepeatCount: firstInt(root, repeatPaths, 1, 1, MaxCount),
			Value:       firstInt(root, valuePaths, 0, 0, MaxGiftValue),
		}, nil
	case KindJoin:
		return Join{Identity: id}, nil
	case KindShare:
		return Share{Identity: id}, nil
	default:
		return nil, ErrMalformedEvent
	}
}

// Payload renders an event back into the canonical wire shape.
// Normalize(Payload(e), e.Kind()) yields e.
func Payload(e Event) []byte {
	who := e.Who()
	out := []byte(`{}`)
	out = setField(out, "participantId", who.ParticipantID)
	out = setField(out, "displayName", who.DisplayName)
	out = setField(out, "avatarUrl", who.AvatarURL)

	switch v := e.(type) {
	case Chat:
		out = setField(out, "text", v.Text)
	case Like:
		out = setField(out, "count", v.Count)
	case Gift:
		out = setField(out, "giftName", v.GiftName)
		out = setField(out, "repeatCount", v.RepeatCount)
		out = setField(out, "value", v.Value)
	}
	return out
}

// setField writes one canonical key. Keys are plain identifiers, so sjson
// can only fail on a broken document, which Payload never builds.
func setField(doc []byte, key string, value any) []byte {
	next, err := sjson.SetBytes(doc, key, value)
	if err != nil {
		return doc
	}
	return next
}

// firstString returns the first variant that resolves to a scalar value.
// Numeric ids are accepted and rendered in their JSON form.
func firstString(root gjson.Result, paths []string) string {
	for _, p := range paths {
		r := root.Get(p)
		switch r.Type {
		case gjson.String:
			if s := strings.TrimSpace(r.Str); s != "" {
				return s
			}
		case gjson.Number:
			return r.Raw
		}
	}
	return ""
}

// firstInt returns the first numeric variant clamped to [lo, hi], or def.
// Numeric strings are accepted since some bridges quote every field.
func firstInt(root gjson.Result, paths []string, def, lo, hi int) int {
	for _, p := range paths {
		r := root.Get(p)
		var n float64
		switch r.Type {
		case gjson.Number:
			n = r.Num
		case gjson.String:
			s := strings.TrimSpace(r.Str)
			if s == "" || !gjson.Valid(s) {
				continue
			}
			parsed := gjson.Parse(s)
			if parsed.Type != gjson.Number {
				continue
			}
			n = parsed.Num
		default:
			continue
		}
		// Clamp before converting; converting an out-of-range float is implementation-dependent.
		switch {
		case math.IsNaN(n) || n <= float64(lo):
			return lo
		case n >= float64(hi):
			return hi
		}
		return int(n)
	}
	return def
}

// cleanText trims, strips control characters and caps the rune length.
func cleanText(s string, limit int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > limit {
		s = strings.TrimSpace(string(runes[:limit]))
	}
	return s
}

// cleanURL accepts only http(s) URLs; anything else resolves to "".
func cleanURL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > MaxURLLen {
		return ""
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		return ""
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return ""
	}
	return s
}
