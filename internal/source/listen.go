package source

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	gws "github.com/gorilla/websocket"

	"github.com/vovakirdan/live-arcade/internal/event"
)

var upgrader = gws.Upgrader{
	// Bridges run on the streamer's machine; any origin may push.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Listener accepts events pushed by a local bridge: one JSON payload per
// POST /events/{kind}, or envelopes over a websocket at /ws.
type Listener struct {
	Addr string
	Log  *log.Logger

	sink Sink
}

// NewListener creates a listener on addr.
func NewListener(addr string, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Listener{Addr: addr, Log: logger}
}

// Name identifies the source in status messages.
func (l *Listener) Name() string { return "listen " + l.Addr }

// Handler returns the ingest routes delivering into sink.
func (l *Listener) Handler(sink Sink) http.Handler {
	l.sink = sink
	r := chi.NewRouter()
	r.Post("/events/{kind}", l.postEvent)
	r.Get("/ws", l.serveWS)
	r.Get("/healthz", healthz)
	return r
}

// Run serves until ctx is done.
func (l *Listener) Run(ctx context.Context, sink Sink) error {
	srv := &http.Server{
		Addr:              l.Addr,
		Handler:           l.Handler(sink),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		//nolint:errcheck // Closing anyway
		srv.Shutdown(shutdownCtx)
	}()

	l.Log.Info("ingest listening", "addr", l.Addr)
	sink.Status(Status{Source: l.Name(), Connected: true})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write([]byte("ok"))
}

func (l *Listener) postEvent(w http.ResponseWriter, r *http.Request) {
	kind, ok := event.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.Error(w, "unknown event kind", http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFrameBytes))
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	// Normalization happens in the session; only reject what can never parse.
	if _, err := event.Normalize(body, kind); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l.sink.Event(Raw{Kind: kind, Payload: body})
	w.WriteHeader(http.StatusAccepted)
}

func (l *Listener) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxFrameBytes)
	l.Log.Info("bridge connected", "remote", r.RemoteAddr)
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			l.Log.Info("bridge disconnected", "remote", r.RemoteAddr)
			return
		}
		raw, err := ParseEnvelope(frame)
		if err != nil {
			l.Log.Debug("dropped frame", "error", err)
			continue
		}
		l.sink.Event(raw)
	}
}
