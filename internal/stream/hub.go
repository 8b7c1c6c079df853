// Package stream implements the persistent translation channel. A client
// opens a websocket, sends finalized transcript text frames, and receives
// JSON frames back: the transcript echoed for captioning, then one video
// frame per resolved sign URL, in resolution order.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
)

// Translator expands transcript text into ordered sign video URLs.
// Implemented by translate.Translator.
type Translator interface {
	Translate(text string) []string
}

// Options tunes per-session websocket behavior. Zero values fall back to
// the defaults below.
type Options struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	SendBuffer     int
	ReadLimit      int64
	AllowedOrigins []string
}

const (
	defaultWriteTimeout = 10 * time.Second
	defaultPongTimeout  = 60 * time.Second
	defaultSendBuffer   = 64
	defaultReadLimit    = 64 << 10
)

// Hub upgrades translation channel connections and tracks live sessions.
type Hub struct {
	translator Translator
	opts       Options
	upgrader   websocket.Upgrader
	log        zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
}

func NewHub(t Translator, opts Options, log zerolog.Logger) *Hub {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.PongTimeout <= 0 {
		opts.PongTimeout = defaultPongTimeout
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = defaultReadLimit
	}

	return &Hub{
		translator: t,
		opts:       opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		log:      log.With().Str("component", "stream").Logger(),
		sessions: make(map[string]*session),
	}
}

// originChecker allows any origin when the list is empty, and always allows
// requests without an Origin header (non-browser clients).
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// ServeHTTP upgrades the request and runs a session until either side
// closes the channel.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isClosed() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error to the client.
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	s := &session{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan frame, h.opts.SendBuffer),
		done: make(chan struct{}),
	}
	s.log = h.log.With().Str("session_id", s.id).Logger()

	if !h.register(s) {
		conn.Close()
		return
	}

	metrics.WSConnectionsTotal.Inc()
	metrics.WSConnectionsActive.Inc()
	s.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	go s.writeLoop()
	go s.readLoop()
}

func (h *Hub) register(s *session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.sessions[s.id] = s
	h.wg.Add(1)
	return true
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

func (h *Hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Shutdown stops accepting new sessions, asks live ones to close, and waits
// for them until ctx expires.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.stop()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info().Int("sessions", len(sessions)).Msg("stream hub stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
