package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/utils"
	"github.com/todobabyrio/todobaby_api/internal/voice"
	"github.com/todobabyrio/todobaby_api/pkg/gemini"
)

// LiveDialer opens a realtime model session.
type LiveDialer func(ctx context.Context, cfg gemini.LiveConfig) (voice.Upstream, error)

// GeminiDialer dials the Gemini live endpoint with client.
func GeminiDialer(client *gemini.Client, liveURL string) LiveDialer {
	return func(ctx context.Context, cfg gemini.LiveConfig) (voice.Upstream, error) {
		session, err := client.Connect(ctx, liveURL, cfg)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

// VoiceService runs realtime voice conversations with the assistant.
type VoiceService struct {
	assistant *AssistantService
	dial      LiveDialer
}

// NewVoiceService constructs a VoiceService.
func NewVoiceService(assistant *AssistantService, dial LiveDialer) *VoiceService {
	return &VoiceService{assistant: assistant, dial: dial}
}

// Enabled reports whether voice sessions can be opened.
func (s *VoiceService) Enabled() bool {
	return s.dial != nil && s.assistant.Enabled()
}

// Serve connects the browser to the model and blocks until the session ends.
// The browser socket is closed on every path.
func (s *VoiceService) Serve(ctx context.Context, sessionID string, browser voice.Downstream) error {
	if !s.Enabled() {
		_ = browser.Close()
		return utils.ErrAssistantDisabled
	}

	upstream, err := s.dial(ctx, s.assistant.LiveConfig())
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("open live session: %w", err)
	}

	log.Info().Str("session_id", sessionID).Msg("Voice session started")
	bridge := voice.NewBridge(browser, upstream)
	err = bridge.Run(ctx)

	log.Info().
		Str("session_id", sessionID).
		Int("transcript_entries", len(bridge.Transcript().Entries())).
		Err(err).
		Msg("Voice session ended")
	return err
}
