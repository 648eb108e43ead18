package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/service"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// AdminAuthenticator signs admins in and out.
type AdminAuthenticator interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Session(ctx context.Context, token string) models.Session
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles admin authentication.
type AuthHandler struct {
	auth AdminAuthenticator
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth AdminAuthenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest represents login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Email and password are required")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	utils.Success(c, 200, "Login successful", result)
}

// GetSession handles GET /v1/admin/auth/session
// A missing or invalid token is not an error: the session is reported as
// unauthenticated.
func (h *AuthHandler) GetSession(c *gin.Context) {
	session := h.auth.Session(c.Request.Context(), middleware.BearerToken(c))
	utils.Success(c, 200, "Session retrieved", session)
}

// Logout handles POST /v1/admin/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		respondError(c, err, "Logout failed")
		return
	}
	utils.Success(c, 200, "Logged out", models.Session{Authenticated: false})
}
