package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// defaultGap spaces replay lines that carry no timestamp.
const defaultGap = 200 * time.Millisecond

// Replay plays back a recorded JSONL session. Each line is an envelope;
// an optional "at" field gives its offset in milliseconds from the start.
type Replay struct {
	Path  string
	Speed float64 // Playback multiplier; 2 plays twice as fast
	Log   *log.Logger
}

// NewReplay creates a replay of path.
func NewReplay(path string, speed float64, logger *log.Logger) *Replay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if speed <= 0 {
		speed = 1
	}
	return &Replay{Path: path, Speed: speed, Log: logger}
}

// Name identifies the source in status messages.
func (r *Replay) Name() string { return "replay " + r.Path }

// Run plays the file once, then reports the feed as lost so the session
// carries on with ambient play.
func (r *Replay) Run(ctx context.Context, sink Sink) error {
	f, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("source: cannot open replay: %w", err)
	}
	defer f.Close()

	sink.Status(Status{Source: r.Name(), Connected: true})
	start := time.Now()
	var at time.Duration
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxFrameBytes)
	line := 0
	for sc.Scan() {
		line++
		frame := sc.Bytes()
		if len(frame) == 0 {
			continue
		}
		raw, err := ParseEnvelope(frame)
		if err != nil {
			r.Log.Debug("skipped replay line", "line", line, "error", err)
			continue
		}
		if v := gjson.GetBytes(frame, "at"); v.Exists() {
			at = time.Duration(v.Float() * float64(time.Millisecond))
		} else {
			at += defaultGap
		}

		due := start.Add(time.Duration(float64(at) / r.Speed))
		if wait := time.Until(due); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}
		raw.Payload = append([]byte(nil), raw.Payload...)
		sink.Event(raw)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("source: cannot read replay: %w", err)
	}
	sink.Status(Status{Source: r.Name(), Err: fmt.Errorf("%w: replay finished", ErrConnectionLost)})
	return nil
}
