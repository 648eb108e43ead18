package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// pingInterval keeps idle proxies from closing the stream.
var pingInterval = 30 * time.Second

// SSEHandler handles Server-Sent Events for storefront and admin refreshes.
type SSEHandler struct {
	hub  *sse.Hub
	auth middleware.TokenAuthenticator
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, auth middleware.TokenAuthenticator) *SSEHandler {
	return &SSEHandler{hub: hub, auth: auth}
}

// Stream handles GET /v1/events
func (h *SSEHandler) Stream(c *gin.Context) {
	h.stream(c, "shop-"+uuid.New().String(), false)
}

// AdminStream handles GET /v1/admin/events?token=<jwt>
// EventSource API cannot set custom headers, so JWT is passed via query param.
func (h *SSEHandler) AdminStream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Missing token query parameter")
		return
	}

	claims, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	h.stream(c, fmt.Sprintf("admin-%d-%s", claims.UserID, uuid.New().String()), true)
}

func (h *SSEHandler) stream(c *gin.Context, clientID string, admin bool) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := h.hub.Register(clientID, admin)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"message":   "SSE connection established",
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Bool("admin", admin).Msg("SSE stream started")

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent("message", string(data))
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
