package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// CartManager mutates the shopper's cart.
type CartManager interface {
	Get(ctx context.Context, cartID string) (models.CartView, error)
	Add(ctx context.Context, cartID string, productID, qty int) (models.CartView, error)
	Remove(ctx context.Context, cartID string, productID int) (models.CartView, error)
	UpdateQuantity(ctx context.Context, cartID string, productID, qty int) (models.CartView, error)
	Clear(ctx context.Context, cartID string) (models.CartView, error)
}

// CartHandler handles the cart endpoints. The cart id comes from the signed
// cookie resolved by middleware.CartSession.
type CartHandler struct {
	carts CartManager
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(carts CartManager) *CartHandler {
	return &CartHandler{carts: carts}
}

type addCartItemRequest struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.carts.Get(c.Request.Context(), middleware.CartID(c))
	if err != nil {
		respondError(c, err, "Failed to load cart")
		return
	}
	utils.Success(c, 200, "Cart retrieved", view)
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.carts.Add(c.Request.Context(), middleware.CartID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to add item")
		return
	}
	utils.Success(c, 200, "Item added", view)
}

// UpdateItem handles PUT /v1/cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	view, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.CartID(c), productID, *req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update item")
		return
	}
	utils.Success(c, 200, "Item updated", view)
}

// RemoveItem handles DELETE /v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	view, err := h.carts.Remove(c.Request.Context(), middleware.CartID(c), productID)
	if err != nil {
		respondError(c, err, "Failed to remove item")
		return
	}
	utils.Success(c, 200, "Item removed", view)
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	view, err := h.carts.Clear(c.Request.Context(), middleware.CartID(c))
	if err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	utils.Success(c, 200, "Cart cleared", view)
}
