package source

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/live-arcade/internal/config"
)

// FromConfig builds every source the feed section enables, in a fixed
// order: dialer, listener, replay, demo.
func FromConfig(feed config.FeedConfig, settings config.Settings, seed int64, logger *log.Logger) []Source {
	var out []Source
	if feed.URL != "" {
		out = append(out, NewDialer(feed.URL,
			time.Duration(feed.BackoffMinMS)*time.Millisecond,
			time.Duration(feed.BackoffMaxMS)*time.Millisecond,
			logger))
	}
	if feed.Listen != "" {
		out = append(out, NewListener(feed.Listen, logger))
	}
	if feed.Replay != "" {
		out = append(out, NewReplay(feed.Replay, feed.ReplaySpeed, logger))
	}
	if feed.Demo {
		out = append(out, NewDemo(feed.DemoRate, seed, settings.ActionCommand, settings.JoinCommand))
	}
	return out
}

// RunAll runs every source into sink and waits for all of them. A source
// that fails is logged and reported as lost; the others keep running.
func RunAll(ctx context.Context, sources []Source, sink Sink, logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			if err := src.Run(ctx, sink); err != nil {
				logger.Error("source failed", "source", src.Name(), "error", err)
				sink.Status(Status{Source: src.Name(), Err: fmt.Errorf("%w: %v", ErrConnectionLost, err)})
			}
		}(src)
	}
	wg.Wait()
}
