package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// LiveURL is the bidirectional streaming endpoint for realtime audio.
	LiveURL = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	// InputAudioMime is the MIME type of microphone chunks sent upstream.
	InputAudioMime = "audio/pcm;rate=16000"

	liveWriteTimeout = 10 * time.Second
)

// ErrSessionClosed is returned when writing to a closed live session.
var ErrSessionClosed = errors.New("gemini: live session closed")

// LiveConfig describes a realtime session.
type LiveConfig struct {
	Model             string
	Voice             string
	SystemInstruction string
}

type liveSetup struct {
	Model                    string            `json:"model"`
	GenerationConfig         *GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction        *Content          `json:"systemInstruction,omitempty"`
	InputAudioTranscription  *struct{}         `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}         `json:"outputAudioTranscription,omitempty"`
}

type liveClientMessage struct {
	Setup         *liveSetup         `json:"setup,omitempty"`
	RealtimeInput *liveRealtimeInput `json:"realtimeInput,omitempty"`
}

type liveRealtimeInput struct {
	MediaChunks []InlineData `json:"mediaChunks"`
}

// Transcription is a fragment of recognized speech.
type Transcription struct {
	Text string `json:"text"`
}

// ServerContent is the model side of a live turn.
type ServerContent struct {
	ModelTurn           *Content       `json:"modelTurn,omitempty"`
	InputTranscription  *Transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *Transcription `json:"outputTranscription,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
}

// LiveMessage is one frame received from the provider.
type LiveMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *ServerContent `json:"serverContent,omitempty"`
	Error         *APIError      `json:"error,omitempty"`
}

// Audio decodes every inline audio part of the model turn.
func (m *LiveMessage) Audio() ([][]byte, error) {
	if m.ServerContent == nil || m.ServerContent.ModelTurn == nil {
		return nil, nil
	}
	var chunks [][]byte
	for _, p := range m.ServerContent.ModelTurn.Parts {
		if p.InlineData == nil || p.InlineData.Data == "" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode audio chunk: %w", err)
		}
		chunks = append(chunks, raw)
	}
	return chunks, nil
}

// LiveSession is an open realtime connection. Close is idempotent and safe
// to call from any goroutine.
type LiveSession struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// Connect opens a live session against the client's live endpoint and sends
// the setup message.
func (c *Client) Connect(ctx context.Context, liveURL string, cfg LiveConfig) (*LiveSession, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	if liveURL == "" {
		liveURL = LiveURL
	}
	u, err := url.Parse(liveURL)
	if err != nil {
		return nil, fmt.Errorf("invalid live url: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("live dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("live dial failed: %w", err)
	}

	s := &LiveSession{conn: conn, closed: make(chan struct{})}

	setup := &liveSetup{
		Model: "models/" + cfg.Model,
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{ModalityAudio},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: VoiceConfig{PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: cfg.Voice}},
			},
		},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}
	if cfg.SystemInstruction != "" {
		setup.SystemInstruction = SystemInstruction(cfg.SystemInstruction)
	}
	if err := s.write(liveClientMessage{Setup: setup}); err != nil {
		s.Close()
		return nil, fmt.Errorf("live setup failed: %w", err)
	}

	log.Debug().Str("model", cfg.Model).Msg("[GEMINI] Live session opened")
	return s, nil
}

// SendAudio streams one PCM16 16kHz chunk to the model.
func (s *LiveSession) SendAudio(pcm []byte) error {
	return s.write(liveClientMessage{RealtimeInput: &liveRealtimeInput{
		MediaChunks: []InlineData{{
			MimeType: InputAudioMime,
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}},
	}})
}

// Receive blocks until the next provider message arrives.
func (s *LiveSession) Receive() (*LiveMessage, error) {
	var msg LiveMessage
	if err := s.conn.ReadJSON(&msg); err != nil {
		select {
		case <-s.closed:
			return nil, ErrSessionClosed
		default:
		}
		return nil, err
	}
	if msg.Error != nil {
		return nil, msg.Error
	}
	return &msg, nil
}

// Done is closed once the session has been closed.
func (s *LiveSession) Done() <-chan struct{} {
	return s.closed
}

// Close terminates the session.
func (s *LiveSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
		log.Debug().Msg("[GEMINI] Live session closed")
	})
	return err
}

func (s *LiveSession) write(v any) error {
	select {
	case <-s.closed:
		return ErrSessionClosed
	default:
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return s.conn.WriteJSON(v)
}
