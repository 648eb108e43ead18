package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todobabyrio/todobaby_api/internal/sse"
)

// readUntil scans SSE lines until one contains needle.
func readUntil(t *testing.T, sc *bufio.Scanner, needle string) string {
	t.Helper()
	for sc.Scan() {
		if line := sc.Text(); strings.Contains(line, needle) {
			return line
		}
	}
	t.Fatalf("stream ended before %q: %v", needle, sc.Err())
	return ""
}

func openStream(t *testing.T, ctx context.Context, url string) (*http.Response, *bufio.Scanner) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp, bufio.NewScanner(resp.Body)
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, sc := openStream(t, ctx, srv.URL+"/v1/events")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	readUntil(t, sc, "event:connected")
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	env.hub.Broadcast(&sse.Event{Event: sse.EventAuthSignedIn, Timestamp: time.Now()})
	env.hub.Broadcast(&sse.Event{Event: sse.EventProductUpdated, Data: map[string]int{"id": 1}, Timestamp: time.Now()})

	readUntil(t, sc, "event:message")
	line := readUntil(t, sc, "data:")
	assert.Contains(t, line, "product.updated", "private events are not sent to shoppers")
}

func TestEventStream_ConcurrentClientsGetDistinctIDs(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ids := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		resp, sc := openStream(t, ctx, srv.URL+"/v1/events")
		defer resp.Body.Close()
		readUntil(t, sc, "event:connected")

		var connected struct {
			ClientID string `json:"clientId"`
		}
		line := readUntil(t, sc, "data:")
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &connected))
		ids = append(ids, connected.ClientID)
	}

	assert.NotEqual(t, ids[0], ids[1])
	assert.True(t, strings.HasPrefix(ids[0], "shop-"))
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)
}

func TestAdminEventStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, _ := openStream(t, ctx, srv.URL+"/v1/admin/events")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = openStream(t, ctx, srv.URL+"/v1/admin/events?token=bad")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, sc := openStream(t, ctx, srv.URL+"/v1/admin/events?token=good")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	readUntil(t, sc, "event:connected")
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	env.hub.Broadcast(&sse.Event{Event: sse.EventAuthSignedOut, Timestamp: time.Now()})
	readUntil(t, sc, "event:message")
	assert.Contains(t, readUntil(t, sc, "data:"), "auth.signed_out")
}

func TestVoiceSocket(t *testing.T) {
	env := newTestEnv(t)
	env.voice.enabled = true
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/assistant/voice"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://todobaby.co"}})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{1, 0, 2, 0}))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	assert.Equal(t, []byte{1, 0, 2, 0}, data)

	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "server closes the socket when the session ends")
}

func TestVoiceSocket_RejectsOversizedFrames(t *testing.T) {
	env := newTestEnv(t)
	env.voice.enabled = true
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/assistant/voice"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://todobaby.co"}})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, make([]byte, maxVoiceFrameBytes+2)))

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), err.Error())
}
