package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
)

const maxFrameBytes = 1 << 20

// Dialer is a websocket client for an upstream event bridge. It reconnects
// with exponential backoff; every attempt starts by closing the previous
// connection so at most one handle is ever open.
type Dialer struct {
	URL        string
	BackoffMin time.Duration
	BackoffMax time.Duration
	Log        *log.Logger

	conn *websocket.Conn
}

// NewDialer creates a dialer for url.
func NewDialer(url string, backoffMin, backoffMax time.Duration, logger *log.Logger) *Dialer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if backoffMin <= 0 {
		backoffMin = 500 * time.Millisecond
	}
	if backoffMax < backoffMin {
		backoffMax = backoffMin
	}
	return &Dialer{URL: url, BackoffMin: backoffMin, BackoffMax: backoffMax, Log: logger}
}

// Name identifies the source in status messages.
func (d *Dialer) Name() string { return "dial " + d.URL }

// Run keeps a connection open until ctx is done.
func (d *Dialer) Run(ctx context.Context, sink Sink) error {
	defer d.closeConn()
	backoff := d.BackoffMin
	for {
		established, err := d.session(ctx, sink)
		if ctx.Err() != nil {
			return nil
		}
		if established {
			backoff = d.BackoffMin
		}

		lost := fmt.Errorf("%w: %v", ErrConnectionLost, err)
		d.Log.Warn("upstream connection lost", "url", d.URL, "retry", backoff, "error", err)
		sink.Status(Status{Source: d.Name(), Err: lost})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, d.BackoffMax)
	}
}

// session dials once and reads until the connection fails. established
// reports whether the dial itself succeeded.
func (d *Dialer) session(ctx context.Context, sink Sink) (established bool, err error) {
	d.closeConn()

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.Dial(dialCtx, d.URL, nil)
	cancel()
	if err != nil {
		return false, err
	}
	conn.SetReadLimit(maxFrameBytes)
	d.conn = conn
	d.Log.Info("upstream connected", "url", d.URL)
	sink.Status(Status{Source: d.Name(), Connected: true})

	for {
		_, frame, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				d.Log.Info("upstream closed", "url", d.URL)
			default:
				d.Log.Debug("upstream read failed", "url", d.URL, "error", err)
			}
			return true, err
		}
		raw, err := ParseEnvelope(frame)
		if err != nil {
			if !errors.Is(err, ErrUnknownKind) {
				d.Log.Debug("dropped frame", "error", err)
			}
			continue
		}
		sink.Event(raw)
	}
}

func (d *Dialer) closeConn() {
	if d.conn == nil {
		return
	}
	//nolint:errcheck // Best effort; the handle is discarded either way
	d.conn.CloseNow()
	d.conn = nil
}
