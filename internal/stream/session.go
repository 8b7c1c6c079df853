package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
)

// Frame types sent to the client.
const (
	FrameTranscript = "transcript"
	FrameVideo      = "video"
)

// frame is the wire format for server-to-client messages.
type frame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// session is one live translation channel. The read loop handles inbound
// transcripts strictly in order; the write loop owns the connection for
// outbound frames and pings.
type session struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan frame
	done chan struct{}
	log  zerolog.Logger

	stopOnce  sync.Once
	closeOnce sync.Once
}

// stop asks both loops to wind down. Safe to call multiple times.
func (s *session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// close tears the session down: underlying connection, hub registration,
// gauges. Runs exactly once no matter which loop exits first.
func (s *session) close() {
	s.closeOnce.Do(func() {
		s.stop()
		s.conn.Close()
		s.hub.remove(s.id)
		metrics.WSConnectionsActive.Dec()
		s.hub.wg.Done()
		s.log.Info().Msg("client disconnected")
	})
}

// readLoop consumes inbound frames. Each text frame is translated and its
// responses are enqueued before the next frame is read, so output order
// matches input order.
func (s *session) readLoop() {
	defer s.close()

	s.conn.SetReadLimit(s.hub.opts.ReadLimit)
	s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongTimeout))
	})

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		if msgType != websocket.TextMessage {
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text frames only"),
				time.Now().Add(s.hub.opts.WriteTimeout))
			return
		}

		metrics.WSMessagesTotal.WithLabelValues("in").Inc()

		// Empty frames carry no transcript and get no reply.
		text := string(data)
		if text == "" {
			continue
		}

		s.handleTranscript(text)
	}
}

// handleTranscript echoes the transcript for captioning, then streams one
// video frame per resolved URL.
func (s *session) handleTranscript(text string) {
	if !s.enqueue(frame{Type: FrameTranscript, Data: text}) {
		return
	}

	urls := s.hub.translator.Translate(text)
	s.log.Debug().Int("urls", len(urls)).Msg("transcript translated")
	metrics.TranslationsTotal.WithLabelValues("ws").Inc()

	for _, url := range urls {
		if !s.enqueue(frame{Type: FrameVideo, Data: url}) {
			return
		}
	}
}

// enqueue hands a frame to the write loop. Blocks when the client is slow,
// which in turn stalls the read loop. Returns false once the session is
// winding down.
func (s *session) enqueue(f frame) bool {
	select {
	case s.send <- f:
		return true
	case <-s.done:
		return false
	}
}

// writeLoop owns all writes on the connection: queued frames, pings, and
// the close handshake.
func (s *session) writeLoop() {
	pingPeriod := s.hub.opts.PongTimeout * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case f := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteTimeout))
			if err := s.conn.WriteJSON(f); err != nil {
				s.log.Debug().Err(err).Msg("write failed")
				return
			}
			metrics.WSMessagesTotal.WithLabelValues("out").Inc()

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteTimeout))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}
