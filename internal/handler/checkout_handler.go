package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/service"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// OrderSubmitter turns the cart into a WhatsApp order.
type OrderSubmitter interface {
	Submit(ctx context.Context, cartID, name, address string) (*service.CheckoutResult, error)
	Contact(ctx context.Context) service.ContactInfo
}

// CheckoutHandler handles checkout and contact links.
type CheckoutHandler struct {
	checkout OrderSubmitter
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkout OrderSubmitter) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Checkout handles POST /v1/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.checkout.Submit(c.Request.Context(), middleware.CartID(c), req.Name, req.Address)
	if err != nil {
		respondError(c, err, "Failed to submit order")
		return
	}
	utils.Success(c, 200, "Order ready to send", result)
}

// GetContact handles GET /v1/contact
func (h *CheckoutHandler) GetContact(c *gin.Context) {
	utils.Success(c, 200, "Contact retrieved", h.checkout.Contact(c.Request.Context()))
}
