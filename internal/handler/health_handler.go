package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/utils"
)

var startTime = time.Now()

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// CatalogCounter reports how many products are loaded in memory.
type CatalogCounter interface {
	Len() int
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	catalog CatalogCounter
	checks  map[string]HealthCheck
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(catalog CatalogCounter, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{catalog: catalog, checks: checks}
}

// GetHealth responds with service and dependency status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = "disconnected"
			status = "degraded"
			continue
		}
		deps[name] = "connected"
	}

	message := "Service is healthy"
	if status != "healthy" {
		message = "Service is degraded"
	}

	utils.Success(c, 200, message, gin.H{
		"status":       status,
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"products":     h.catalog.Len(),
		"dependencies": deps,
	})
}
