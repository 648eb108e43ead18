package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a product snapshot plus the requested quantity (always >= 1).
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price * quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a shopper's persisted cart.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartView is the cart as returned to the storefront, with derived totals.
type CartView struct {
	ID    string          `json:"id"`
	Items []CartItem      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
