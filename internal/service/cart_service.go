package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/cart"
	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// CartService applies cart operations to persisted carts.
type CartService struct {
	carts    CartStore
	products *catalog.Store
}

// NewCartService constructs a CartService.
func NewCartService(carts CartStore, products *catalog.Store) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the cart with its derived count and total.
func (s *CartService) Get(ctx context.Context, cartID string) (models.CartView, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("Failed to load cart")
		return models.CartView{}, err
	}
	return cart.View(cartID, c.Items), nil
}

// Add puts qty units of an active product in the cart, merging with an
// existing line.
func (s *CartService) Add(ctx context.Context, cartID string, productID, qty int) (models.CartView, error) {
	p, ok := s.products.Get(productID)
	if !ok || !p.IsActive() {
		return models.CartView{}, utils.ErrProductNotFound
	}
	return s.mutate(ctx, cartID, func(items []models.CartItem) ([]models.CartItem, error) {
		return cart.Add(items, p, qty)
	})
}

// Remove drops a line. Unknown products are ignored.
func (s *CartService) Remove(ctx context.Context, cartID string, productID int) (models.CartView, error) {
	return s.mutate(ctx, cartID, func(items []models.CartItem) ([]models.CartItem, error) {
		return cart.Remove(items, productID), nil
	})
}

// UpdateQuantity sets a line quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID, qty int) (models.CartView, error) {
	return s.mutate(ctx, cartID, func(items []models.CartItem) ([]models.CartItem, error) {
		return cart.UpdateQuantity(items, productID, qty), nil
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, cartID string) (models.CartView, error) {
	if err := s.carts.Delete(ctx, cartID); err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("Failed to clear cart")
		return models.CartView{}, err
	}
	return cart.View(cartID, nil), nil
}

func (s *CartService) mutate(ctx context.Context, cartID string, fn func([]models.CartItem) ([]models.CartItem, error)) (models.CartView, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("Failed to load cart")
		return models.CartView{}, err
	}

	items, err := fn(c.Items)
	if err != nil {
		return models.CartView{}, err
	}

	c.Items = items
	if err := s.carts.Save(ctx, c); err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("Failed to save cart")
		return models.CartView{}, err
	}
	return cart.View(cartID, c.Items), nil
}
