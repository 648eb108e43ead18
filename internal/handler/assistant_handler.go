package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/storage"
	"github.com/todobabyrio/todobaby_api/internal/utils"
	"github.com/todobabyrio/todobaby_api/internal/voice"
)

const (
	// maxChatImageBytes caps images attached to a chat message.
	maxChatImageBytes = 10 << 20
	// maxVoiceFrameBytes caps one browser frame: several seconds of 16 kHz PCM16.
	maxVoiceFrameBytes = 256 << 10
)

// Assistant answers shoppers. Text methods never fail; they return a
// fallback sentence instead.
type Assistant interface {
	Greeting(ctx context.Context) string
	Chat(ctx context.Context, history []models.ChatMessage, message string) string
	ChatWithImage(ctx context.Context, history []models.ChatMessage, message string, image []byte, mimeType string) string
	Speak(ctx context.Context, text string) ([]byte, error)
}

// VoiceServer runs a realtime voice session over a browser socket.
type VoiceServer interface {
	Enabled() bool
	Serve(ctx context.Context, sessionID string, browser voice.Downstream) error
}

// AssistantHandler handles the shopping assistant endpoints.
type AssistantHandler struct {
	assistant Assistant
	voice     VoiceServer
	upgrader  websocket.Upgrader
}

// NewAssistantHandler constructs an AssistantHandler. Voice sockets are only
// accepted from allowedHosts.
func NewAssistantHandler(assistant Assistant, voiceServer VoiceServer, allowedHosts []string) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		voice:     voiceServer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowedHosts, r.Header.Get("Origin"))
			},
		},
	}
}

type chatRequest struct {
	History []models.ChatMessage `json:"history"`
	Message string               `json:"message"`
}

type speechRequest struct {
	Text string `json:"text" binding:"required"`
}

// GetGreeting handles GET /v1/assistant/greeting
func (h *AssistantHandler) GetGreeting(c *gin.Context) {
	utils.Success(c, 200, "Greeting retrieved", gin.H{
		"role": models.ChatRoleModel,
		"text": h.assistant.Greeting(c.Request.Context()),
	})
}

// Chat handles POST /v1/assistant/chat
// JSON bodies carry {history, message}. Multipart bodies carry the same
// fields ("history" as a JSON string) plus an optional "image" file.
func (h *AssistantHandler) Chat(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.chatMultipart(c)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "Message is required")
		return
	}

	reply := h.assistant.Chat(c.Request.Context(), req.History, req.Message)
	utils.Success(c, 200, "Reply generated", chatReply(reply))
}

func (h *AssistantHandler) chatMultipart(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxChatImageBytes+1<<20)

	var req chatRequest
	req.Message = c.PostForm("message")
	if raw := c.PostForm("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.History); err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid history")
			return
		}
	}

	file, _, err := c.Request.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		if strings.TrimSpace(req.Message) == "" {
			utils.Error(c, 400, "INVALID_REQUEST", "Message is required")
			return
		}
		reply := h.assistant.Chat(c.Request.Context(), req.History, req.Message)
		utils.Success(c, 200, "Reply generated", chatReply(reply))
		return
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, utils.ErrImageTooLarge, "Failed to read image")
			return
		}
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid image field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxChatImageBytes+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read image")
		return
	}
	if len(data) > maxChatImageBytes {
		respondError(c, utils.ErrImageTooLarge, "Failed to read image")
		return
	}
	mimeType, _, err := storage.DetectImage(data)
	if err != nil {
		respondError(c, err, "Failed to read image")
		return
	}

	reply := h.assistant.ChatWithImage(c.Request.Context(), req.History, req.Message, data, mimeType)
	utils.Success(c, 200, "Reply generated", chatReply(reply))
}

func chatReply(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.ChatRoleModel, Text: text}
}

// Speech handles POST /v1/assistant/speech and answers with audio/wav.
func (h *AssistantHandler) Speech(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "Text is required")
		return
	}

	wav, err := h.assistant.Speak(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, utils.ErrAssistantDisabled) {
			respondError(c, err, "Speech unavailable")
			return
		}
		log.Error().Err(err).Msg("Speech synthesis failed")
		utils.Error(c, 502, "SPEECH_FAILED", "Speech synthesis failed")
		return
	}
	c.Data(200, "audio/wav", wav)
}

// Voice handles GET /v1/assistant/voice
// The connection is upgraded to a WebSocket and bridged to the realtime
// model until either side stops.
func (h *AssistantHandler) Voice(c *gin.Context) {
	if !h.voice.Enabled() {
		respondError(c, utils.ErrAssistantDisabled, "Voice unavailable")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Warn().Err(err).Msg("Voice upgrade failed")
		return
	}
	conn.SetReadLimit(maxVoiceFrameBytes)

	sessionID := uuid.New().String()
	if err := h.voice.Serve(c.Request.Context(), sessionID, conn); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Voice session failed")
	}
}
