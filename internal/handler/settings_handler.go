package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// SettingsManager reads and writes the store profile.
type SettingsManager interface {
	Get(ctx context.Context) models.StoreSettings
	Update(ctx context.Context, in models.StoreSettings) (*models.StoreSettings, error)
}

// SettingsHandler handles store settings.
type SettingsHandler struct {
	settings SettingsManager
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	utils.Success(c, 200, "Settings retrieved", h.settings.Get(c.Request.Context()))
}

// UpdateSettings handles PUT /v1/admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.StoreSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to save settings")
		return
	}
	utils.Success(c, 200, "Settings updated", updated)
}
