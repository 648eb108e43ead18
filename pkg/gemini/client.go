package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Generative Language REST endpoint.
	BaseURL = "https://generativelanguage.googleapis.com/v1beta"

	ModalityText  = "TEXT"
	ModalityAudio = "AUDIO"
)

// ErrNoAPIKey is returned when the client was built without credentials.
var ErrNoAPIKey = errors.New("gemini: api key not configured")

// ErrEmptyResponse is returned when the provider answered without content.
var ErrEmptyResponse = errors.New("gemini: empty response")

// Client is a minimal HTTP client for the Gemini REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	debug      bool
}

// NewClient constructs a new Gemini client. An empty baseURL uses BaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// GenerateContent calls models/{model}:generateContent.
func (c *Client) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	var resp GenerateContentResponse
	endpoint := "/models/" + model + ":generateContent"
	if err := c.doRequest(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	return &resp, nil
}

// GenerateText is a single-prompt convenience wrapper returning the answer text.
func (c *Client) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.GenerateContent(ctx, model, &GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: []Part{TextPart(prompt)}}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Speak synthesizes speech for text and returns the raw PCM16 samples.
func (c *Client) Speak(ctx context.Context, model, voice, text string) ([]byte, error) {
	resp, err := c.GenerateContent(ctx, model, &GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: []Part{TextPart(text)}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{ModalityAudio},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: VoiceConfig{PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: voice}},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	audio := resp.InlineAudio()
	if audio == nil || audio.Data == "" {
		return nil, ErrEmptyResponse
	}
	pcm, err := base64.StdEncoding.DecodeString(audio.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}
	return pcm, nil
}

// doRequest performs the HTTP POST with a JSON payload and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("request_bytes", len(payload)).
			Msg("[GEMINI] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Int("response_bytes", len(respBody)).
			Msg("[GEMINI] Incoming response")
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
