package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubTranslator resolves tokens from a fixed map, mirroring the real
// translator's lowercase-and-split behavior.
type stubTranslator struct {
	urls map[string][]string
}

func (s stubTranslator) Translate(text string) []string {
	out := make([]string, 0, 4)
	for _, token := range strings.Fields(text) {
		out = append(out, s.urls[strings.ToLower(token)]...)
	}
	return out
}

func testTranslator() stubTranslator {
	return stubTranslator{urls: map[string][]string{
		"hello": {"https://cdn.test/signs/hello.mp4"},
		"42":    {"https://cdn.test/signs/num-42.mp4"},
		"cab": {
			"https://cdn.test/signs/letter-c.mp4",
			"https://cdn.test/signs/letter-a.mp4",
			"https://cdn.test/signs/letter-b.mp4",
		},
	}}
}

// newStreamServer starts a hub behind an httptest server and returns a
// websocket URL for it. Cleanup shuts the hub down before the server.
func newStreamServer(t *testing.T, tr Translator, opts Options) (*Hub, string) {
	t.Helper()
	h := NewHub(tr, opts, zerolog.Nop())
	ts := httptest.NewServer(h)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = h.Shutdown(ctx)
		ts.Close()
	})
	return h, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestSessionEchoesTranscriptThenVideos(t *testing.T) {
	_, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Hello 42")))

	f := readFrame(t, conn)
	require.Equal(t, FrameTranscript, f.Type)
	require.Equal(t, "Hello 42", f.Data, "transcript echoes the raw text")

	f = readFrame(t, conn)
	require.Equal(t, FrameVideo, f.Type)
	require.Equal(t, "https://cdn.test/signs/hello.mp4", f.Data)

	f = readFrame(t, conn)
	require.Equal(t, FrameVideo, f.Type)
	require.Equal(t, "https://cdn.test/signs/num-42.mp4", f.Data)
}

func TestSessionPreservesURLOrder(t *testing.T) {
	_, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("cab")))

	require.Equal(t, FrameTranscript, readFrame(t, conn).Type)
	want := []string{
		"https://cdn.test/signs/letter-c.mp4",
		"https://cdn.test/signs/letter-a.mp4",
		"https://cdn.test/signs/letter-b.mp4",
	}
	for _, u := range want {
		f := readFrame(t, conn)
		require.Equal(t, FrameVideo, f.Type)
		require.Equal(t, u, f.Data)
	}
}

func TestSessionHandlesMessagesSequentially(t *testing.T) {
	_, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("42")))

	// All frames for the first message arrive before any for the second.
	f := readFrame(t, conn)
	require.Equal(t, FrameTranscript, f.Type)
	require.Equal(t, "hello", f.Data)
	require.Equal(t, "https://cdn.test/signs/hello.mp4", readFrame(t, conn).Data)

	f = readFrame(t, conn)
	require.Equal(t, FrameTranscript, f.Type)
	require.Equal(t, "42", f.Data)
	require.Equal(t, "https://cdn.test/signs/num-42.mp4", readFrame(t, conn).Data)
}

func TestSessionIgnoresEmptyFrames(t *testing.T) {
	_, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	// The empty frame produces nothing, so the first reply belongs to "hello".
	f := readFrame(t, conn)
	require.Equal(t, FrameTranscript, f.Type)
	require.Equal(t, "hello", f.Data)
}

func TestSessionUnknownTextEchoesTranscriptOnly(t *testing.T) {
	_, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("zzz")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	f := readFrame(t, conn)
	require.Equal(t, FrameTranscript, f.Type)
	require.Equal(t, "zzz", f.Data)

	// No video frames for "zzz"; next frame is the second transcript.
	f = readFrame(t, conn)
	require.Equal(t, FrameTranscript, f.Type)
	require.Equal(t, "hello", f.Data)
}

func TestSessionRejectsBinaryFrames(t *testing.T) {
	_, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseUnsupportedData),
		"expected close 1003, got %v", err)
}

func TestHubTracksSessions(t *testing.T) {
	h, url := newStreamServer(t, testTranslator(), Options{})

	require.Equal(t, 0, h.SessionCount())

	conn1 := dial(t, url)
	conn2 := dial(t, url)
	require.Eventually(t, func() bool { return h.SessionCount() == 2 },
		2*time.Second, 10*time.Millisecond)

	conn1.Close()
	conn2.Close()
	require.Eventually(t, func() bool { return h.SessionCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownClosesSessions(t *testing.T) {
	h, url := newStreamServer(t, testTranslator(), Options{})
	conn := dial(t, url)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.Shutdown(ctx))
	require.Equal(t, 0, h.SessionCount())

	// Client sees a going-away close.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway),
		"expected close 1001, got %v", err)

	// New connections are refused outright.
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if resp != nil {
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestOriginChecker(t *testing.T) {
	t.Run("empty_allows_all", func(t *testing.T) {
		check := originChecker(nil)
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Origin", "https://anywhere.example")
		require.True(t, check(r))
	})

	t.Run("listed_origin_allowed", func(t *testing.T) {
		check := originChecker([]string{"https://app.example.com"})
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Origin", "https://app.example.com")
		require.True(t, check(r))
	})

	t.Run("unlisted_origin_rejected", func(t *testing.T) {
		check := originChecker([]string{"https://app.example.com"})
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Origin", "https://evil.example")
		require.False(t, check(r))
	})

	t.Run("missing_origin_allowed", func(t *testing.T) {
		check := originChecker([]string{"https://app.example.com"})
		require.True(t, check(httptest.NewRequest("GET", "/", nil)))
	})
}
