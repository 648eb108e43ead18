package voice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/pkg/gemini"
)

// Control and event frame types exchanged with the browser as JSON text.
const (
	FrameStop        = "stop"
	FrameTranscript  = "transcript"
	FrameInterrupted = "interrupted"
	FrameError       = "error"
)

const (
	browserWriteTimeout = 10 * time.Second
	closeFrameTimeout   = time.Second
)

// ErrStopped is returned when the browser asked to end the session.
var ErrStopped = errors.New("voice session stopped by client")

// Upstream is the realtime model session.
type Upstream interface {
	SendAudio(pcm []byte) error
	Receive() (*gemini.LiveMessage, error)
	Close() error
}

// Downstream is the browser socket. *websocket.Conn satisfies it.
// WriteControl may be called concurrently with WriteMessage.
type Downstream interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Frame is a JSON text frame.
type Frame struct {
	Type    string                   `json:"type"`
	Entries []models.TranscriptEntry `json:"entries,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// Bridge relays audio between a browser and the model for one session.
type Bridge struct {
	browser    Downstream
	provider   Upstream
	transcript *Transcript

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewBridge pairs a browser socket with an open model session.
func NewBridge(browser Downstream, provider Upstream) *Bridge {
	return &Bridge{
		browser:    browser,
		provider:   provider,
		transcript: NewTranscript(),
	}
}

// Transcript returns the session chat log.
func (b *Bridge) Transcript() *Transcript {
	return b.transcript
}

// Run pumps frames in both directions until the browser stops or
// disconnects, the provider fails, or ctx is cancelled. Both sockets are
// closed on return.
func (b *Bridge) Run(ctx context.Context) error {
	defer b.close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		b.close()
		return gctx.Err()
	})
	g.Go(b.browserToProvider)
	g.Go(b.providerToBrowser)

	err := g.Wait()
	if ctx.Err() != nil || isCleanExit(err) {
		return nil
	}
	return err
}

func isCleanExit(err error) bool {
	return errors.Is(err, ErrStopped) ||
		errors.Is(err, gemini.ErrSessionClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

func (b *Bridge) close() {
	b.closeOnce.Do(func() {
		if err := b.provider.Close(); err != nil {
			log.Debug().Err(err).Msg("voice: provider close")
		}
		// Not under writeMu: a relay write stuck on a slow browser must not
		// keep the socket from closing.
		_ = b.browser.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeFrameTimeout))
		if err := b.browser.Close(); err != nil {
			log.Debug().Err(err).Msg("voice: browser close")
		}
	})
}

func (b *Bridge) browserToProvider() error {
	for {
		kind, data, err := b.browser.ReadMessage()
		if err != nil {
			return err
		}
		switch kind {
		case websocket.BinaryMessage:
			if len(data) == 0 {
				continue
			}
			if len(data)%2 != 0 {
				data = data[:len(data)-1]
			}
			if err := b.provider.SendAudio(data); err != nil {
				return err
			}
		case websocket.TextMessage:
			var f Frame
			if err := json.Unmarshal(data, &f); err != nil {
				log.Debug().Err(err).Msg("voice: ignoring malformed control frame")
				continue
			}
			if f.Type == FrameStop {
				return ErrStopped
			}
		}
	}
}

func (b *Bridge) providerToBrowser() error {
	for {
		msg, err := b.provider.Receive()
		if err != nil {
			var apiErr *gemini.APIError
			if errors.As(err, &apiErr) {
				_ = b.writeJSON(Frame{Type: FrameError, Message: apiErr.Message})
			}
			return err
		}
		if err := b.handleProviderMessage(msg); err != nil {
			return err
		}
	}
}

func (b *Bridge) handleProviderMessage(msg *gemini.LiveMessage) error {
	sc := msg.ServerContent
	if sc == nil {
		return nil
	}

	chunks, err := msg.Audio()
	if err != nil {
		log.Warn().Err(err).Msg("voice: dropping undecodable audio")
	}
	for _, chunk := range chunks {
		if err := b.write(websocket.BinaryMessage, chunk); err != nil {
			return err
		}
	}

	if sc.InputTranscription != nil {
		b.transcript.AddInput(sc.InputTranscription.Text)
	}
	if sc.OutputTranscription != nil {
		b.transcript.AddOutput(sc.OutputTranscription.Text)
	}

	if sc.Interrupted {
		if err := b.writeJSON(Frame{Type: FrameInterrupted}); err != nil {
			return err
		}
	}

	if sc.TurnComplete {
		if entries := b.transcript.Finalize(); len(entries) > 0 {
			if err := b.writeJSON(Frame{Type: FrameTranscript, Entries: entries}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Bridge) writeJSON(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return b.write(websocket.TextMessage, data)
}

func (b *Bridge) write(kind int, data []byte) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	_ = b.browser.SetWriteDeadline(time.Now().Add(browserWriteTimeout))
	return b.browser.WriteMessage(kind, data)
}
