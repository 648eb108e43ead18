package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// CartKeyPrefix namespaces persisted carts: todo-baby-cart:{cartID}.
const CartKeyPrefix = "todo-baby-cart:"

// CartCache persists carts as serialized JSON with a sliding TTL.
type CartCache struct {
	kv  KV
	ttl time.Duration
}

// NewCartCache creates a CartCache.
func NewCartCache(kv KV, ttl time.Duration) *CartCache {
	return &CartCache{kv: kv, ttl: ttl}
}

func (c *CartCache) key(cartID string) string {
	return CartKeyPrefix + cartID
}

// Get loads the cart. An unknown id yields an empty cart.
func (c *CartCache) Get(ctx context.Context, cartID string) (*models.Cart, error) {
	raw, err := c.kv.Get(ctx, c.key(cartID))
	if IsMiss(err) {
		return &models.Cart{ID: cartID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	cart.ID = cartID
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// Save stores the cart and refreshes its TTL.
func (c *CartCache) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return c.kv.Set(ctx, c.key(cart.ID), string(raw), c.ttl)
}

// Delete forgets the cart.
func (c *CartCache) Delete(ctx context.Context, cartID string) error {
	return c.kv.Delete(ctx, c.key(cartID))
}
