package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// settingsRowID is the id of the single store_settings row.
const settingsRowID = 1

// SettingsRepository persists the store settings singleton as JSONB.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings, or sql.ErrNoRows if none were saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var raw []byte
	if err := r.db.GetContext(ctx, &raw, `SELECT data FROM store_settings WHERE id = $1`, settingsRowID); err != nil {
		return nil, err
	}
	var s models.StoreSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode store settings: %w", err)
	}
	return &s, nil
}

// Upsert stores s as the settings row.
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.StoreSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode store settings: %w", err)
	}
	const q = `
        INSERT INTO store_settings (id, data) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	_, err = r.db.ExecContext(ctx, q, settingsRowID, raw)
	return err
}
