package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// ContextCartID holds the shopper's cart id.
const ContextCartID = "cart_id"

// CartSession resolves the signed cart cookie, issuing a new cart id when it
// is missing or tampered with.
type CartSession struct {
	cookieName string
	secret     string
	maxAge     int
	secure     bool
}

// NewCartSession constructs the cart cookie middleware.
func NewCartSession(cookieName, secret string, maxAgeSeconds int, secure bool) *CartSession {
	return &CartSession{cookieName: cookieName, secret: secret, maxAge: maxAgeSeconds, secure: secure}
}

func (m *CartSession) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var cartID string
		if raw, err := c.Cookie(m.cookieName); err == nil {
			if id, ok := utils.UnsignValue(raw, m.secret); ok {
				if _, err := uuid.Parse(id); err == nil {
					cartID = id
				}
			}
		}
		if cartID == "" {
			cartID = uuid.New().String()
		}

		// Refresh on every request so the cookie slides with the stored cart.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(m.cookieName, utils.SignValue(cartID, m.secret), m.maxAge, "/", "", m.secure, true)
		c.Set(ContextCartID, cartID)
		c.Next()
	}
}

// CartID returns the cart id resolved by CartSession.
func CartID(c *gin.Context) string {
	return c.GetString(ContextCartID)
}
