package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// Context keys set for authenticated admin requests.
const (
	ContextAdminID    = "admin_id"
	ContextAdminEmail = "admin_email"
	ContextTokenID    = "token_id"
)

// TokenAuthenticator validates admin bearer tokens.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

type JWTMiddleware struct {
	auth    TokenAuthenticator
	limiter *IPRateLimiter
}

// NewJWTMiddleware builds the admin guard. Failed attempts count against
// limiter when it is not nil.
func NewJWTMiddleware(auth TokenAuthenticator, limiter *IPRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{auth: auth, limiter: limiter}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			m.reject(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		token := BearerToken(c)
		if token == "" {
			m.reject(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !utils.IsInvalidToken(err) {
				utils.Error(c, 503, "AUTH_UNAVAILABLE", "Unable to verify session")
				c.Abort()
				return
			}
			m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextAdminID, claims.UserID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Set(ContextTokenID, claims.ID)
		c.Next()
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, code, message string) {
	if m.limiter != nil && !m.limiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, 401, code, message)
	c.Abort()
}
