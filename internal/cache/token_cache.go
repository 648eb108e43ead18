package cache

import (
	"context"
	"time"
)

// RevokedTokenPrefix namespaces revoked admin token ids.
const RevokedTokenPrefix = "todo-baby-revoked:"

// TokenCache tracks signed-out admin tokens until they expire on their own.
type TokenCache struct {
	kv KV
}

// NewTokenCache creates a TokenCache.
func NewTokenCache(kv KV) *TokenCache {
	return &TokenCache{kv: kv}
}

// Revoke marks the token id as signed out for ttl.
func (c *TokenCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.kv.Set(ctx, RevokedTokenPrefix+tokenID, "1", ttl)
}

// IsRevoked reports whether the token id was signed out.
func (c *TokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return c.kv.Exists(ctx, RevokedTokenPrefix+tokenID)
}
