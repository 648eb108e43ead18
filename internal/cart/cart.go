// Package cart implements the cart reducers. Every function returns a new
// slice and never mutates its input.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// Add puts qty units of p in the cart. Adding a product that is already
// present sums the quantities.
func Add(items []models.CartItem, p models.Product, qty int) ([]models.CartItem, error) {
	if qty < 1 {
		return clone(items), utils.ErrInvalidQuantity
	}
	out := clone(items)
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity += qty
			return out, nil
		}
	}
	return append(out, models.CartItem{Product: p, Quantity: qty}), nil
}

// Remove drops the product from the cart. Unknown ids are a no-op.
func Remove(items []models.CartItem, productID int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID != productID {
			out = append(out, it)
		}
	}
	return out
}

// UpdateQuantity sets the quantity of a product. A quantity of zero or less
// removes it.
func UpdateQuantity(items []models.CartItem, productID, qty int) []models.CartItem {
	if qty <= 0 {
		return Remove(items, productID)
	}
	out := clone(items)
	for i := range out {
		if out[i].ID == productID {
			out[i].Quantity = qty
		}
	}
	return out
}

// Clear empties the cart.
func Clear([]models.CartItem) []models.CartItem {
	return []models.CartItem{}
}

// Count is the number of units in the cart.
func Count(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price * quantity.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// View wraps items with the derived count and total.
func View(id string, items []models.CartItem) models.CartView {
	if items == nil {
		items = []models.CartItem{}
	}
	return models.CartView{
		ID:    id,
		Items: items,
		Count: Count(items),
		Total: Total(items),
	}
}

func clone(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
