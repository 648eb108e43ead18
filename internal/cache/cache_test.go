package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func TestCartCache_RoundTrip(t *testing.T) {
	kv := newMemKV()
	c := NewCartCache(kv, time.Hour)
	ctx := context.Background()

	empty, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", empty.ID)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	cart := &models.Cart{ID: "abc", Items: []models.CartItem{{
		Product:  models.Product{ID: 3, Name: "Termo", Price: decimal.RequireFromString("12.50")},
		Quantity: 2,
	}}}
	require.NoError(t, c.Save(ctx, cart))
	assert.Equal(t, time.Hour, kv.ttls["todo-baby-cart:abc"])

	loaded, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Items[0].Price.Equal(decimal.RequireFromString("12.5")))

	require.NoError(t, c.Delete(ctx, "abc"))
	loaded, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestCartCache_CorruptPayload(t *testing.T) {
	kv := newMemKV()
	kv.data["todo-baby-cart:bad"] = "{not json"

	_, err := NewCartCache(kv, time.Hour).Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestSettingsCache(t *testing.T) {
	kv := newMemKV()
	c := NewSettingsCache(kv)
	ctx := context.Background()

	_, err := c.Get(ctx)
	assert.True(t, IsMiss(err))

	require.NoError(t, c.Set(ctx, &models.StoreSettings{StoreName: "Todo Baby"}))
	assert.Contains(t, kv.data, "todo-baby-settings")

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Todo Baby", got.StoreName)
}

func TestTokenCache(t *testing.T) {
	kv := newMemKV()
	c := NewTokenCache(kv)
	ctx := context.Background()

	revoked, err := c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-2", 0))
	revoked, _ = c.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked, "already expired tokens need no entry")
}
