package service

import (
	"context"
	"time"

	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/pkg/gemini"
)

// ProductRepository is the product table.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// SettingsRepository is the store_settings table.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Upsert(ctx context.Context, s *models.StoreSettings) error
}

// AdminUserRepository is the admin_users table.
type AdminUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id int) error
}

// CartStore persists carts by id.
type CartStore interface {
	Get(ctx context.Context, cartID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, cartID string) error
}

// SettingsStore is the key-value copy of the store settings.
type SettingsStore interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Set(ctx context.Context, s *models.StoreSettings) error
}

// TokenRevoker remembers signed-out token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Generator is the generative-AI provider.
type Generator interface {
	Configured() bool
	GenerateContent(ctx context.Context, model string, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error)
	Speak(ctx context.Context, model, voice, text string) ([]byte, error)
}
