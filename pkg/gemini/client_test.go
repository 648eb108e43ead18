package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req GenerateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hola", req.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hola, "},{"text":"mamá"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second)
	text, err := c.GenerateText(context.Background(), "gemini-2.5-flash", "hola")
	require.NoError(t, err)
	assert.Equal(t, "Hola, mamá", text)
}

func TestGenerateContent_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"bad key","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, time.Second)
	_, err := c.GenerateText(context.Background(), "m", "x")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Code)
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, time.Second).GenerateText(context.Background(), "m", "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_NoAPIKey(t *testing.T) {
	c := NewClient("", "", 0)
	assert.False(t, c.Configured())

	_, err := c.GenerateText(context.Background(), "m", "x")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = c.Connect(context.Background(), "", LiveConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSpeak(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, []string{ModalityAudio}, req.GenerationConfig.ResponseModalities)
		assert.Equal(t, "Kore", req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)

		resp := GenerateContentResponse{Candidates: []Candidate{{Content: Content{Parts: []Part{{
			InlineData: &InlineData{MimeType: "audio/L16;rate=24000", Data: base64.StdEncoding.EncodeToString(pcm)},
		}}}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	got, err := NewClient("k", srv.URL, time.Second).Speak(context.Background(), "tts", "Kore", "hola")
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
}

func TestLiveSession(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan liveClientMessage, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for i := 0; i < 2; i++ {
			var msg liveClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg
		}

		audio := base64.StdEncoding.EncodeToString([]byte{9, 9})
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"`+audio+`"}}]},"outputTranscription":{"text":"Hola"}}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"serverContent":{"turnComplete":true}}`))
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, time.Second)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s, err := c.Connect(context.Background(), wsURL, LiveConfig{Model: "live", Voice: "Kore", SystemInstruction: "sé amable"})
	require.NoError(t, err)
	defer s.Close()

	setup := <-received
	require.NotNil(t, setup.Setup)
	assert.Equal(t, "models/live", setup.Setup.Model)
	assert.NotNil(t, setup.Setup.InputAudioTranscription)

	require.NoError(t, s.SendAudio([]byte{1, 2}))
	chunk := <-received
	require.NotNil(t, chunk.RealtimeInput)
	assert.Equal(t, InputAudioMime, chunk.RealtimeInput.MediaChunks[0].MimeType)

	msg, err := s.Receive()
	require.NoError(t, err)
	audio, err := msg.Audio()
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{9, 9}}, audio)
	assert.Equal(t, "Hola", msg.ServerContent.OutputTranscription.Text)

	msg, err = s.Receive()
	require.NoError(t, err)
	assert.True(t, msg.ServerContent.TurnComplete)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.ErrorIs(t, s.SendAudio([]byte{1}), ErrSessionClosed)
}
