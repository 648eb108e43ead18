package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// SettingsKey is the fixed key holding the store settings record.
const SettingsKey = "todo-baby-settings"

// SettingsCache keeps the serialized store settings under SettingsKey.
type SettingsCache struct {
	kv KV
}

// NewSettingsCache creates a SettingsCache.
func NewSettingsCache(kv KV) *SettingsCache {
	return &SettingsCache{kv: kv}
}

// Get returns the cached settings or ErrMiss.
func (c *SettingsCache) Get(ctx context.Context) (*models.StoreSettings, error) {
	raw, err := c.kv.Get(ctx, SettingsKey)
	if err != nil {
		return nil, err
	}
	var s models.StoreSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}

// Set stores the settings without expiry.
func (c *SettingsCache) Set(ctx context.Context, s *models.StoreSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return c.kv.Set(ctx, SettingsKey, string(raw), 0)
}
