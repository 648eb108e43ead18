package main

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todobabyrio/todobaby_api/internal/config"
	"github.com/todobabyrio/todobaby_api/internal/models"
)

type fakeProducts struct {
	existing int
	created  []models.Product
	failAt   int
}

func (f *fakeProducts) Count(context.Context) (int, error) {
	return f.existing, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return errors.New("insert failed")
	}
	p.ID = len(f.created) + 1
	f.created = append(f.created, *p)
	return nil
}

func TestSeedCatalog_EmptyTable(t *testing.T) {
	repo := &fakeProducts{}

	n, err := seedCatalog(context.Background(), repo, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, len(repo.created), n)
	assert.Greater(t, n, 50)
	for _, p := range repo.created {
		assert.True(t, p.IsActive())
		assert.NotEmpty(t, p.Tags)
		assert.True(t, p.Price.IsPositive())
	}
}

func TestSeedCatalog_SkipsWhenProductsExist(t *testing.T) {
	repo := &fakeProducts{existing: 3}

	n, err := seedCatalog(context.Background(), repo, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, repo.created)
}

func TestSeedCatalog_StopsOnInsertError(t *testing.T) {
	repo := &fakeProducts{failAt: 3}

	n, err := seedCatalog(context.Background(), repo, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Equal(t, 2, n)
}

type fakeAdmins struct {
	existing map[string]bool
	lookup   error
	created  []string
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if f.lookup != nil {
		return nil, f.lookup
	}
	if f.existing[email] {
		return &models.AdminUser{Email: email}, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdmins) CreateAdmin(_ context.Context, email, _, _ string) error {
	f.created = append(f.created, email)
	return nil
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()

	admins := &fakeAdmins{existing: map[string]bool{}}
	created, err := seedAdmin(ctx, admins, admins, config.SeedConfig{AdminEmail: " Laura@TodoBaby.co ", AdminPassword: "secret"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"laura@todobaby.co"}, admins.created)

	admins = &fakeAdmins{existing: map[string]bool{"laura@todobaby.co": true}}
	created, err = seedAdmin(ctx, admins, admins, config.SeedConfig{AdminEmail: "laura@todobaby.co", AdminPassword: "secret"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, admins.created)

	created, err = seedAdmin(ctx, admins, admins, config.SeedConfig{AdminEmail: "laura@todobaby.co"})
	require.NoError(t, err)
	assert.False(t, created)

	admins = &fakeAdmins{lookup: errors.New("db down")}
	_, err = seedAdmin(ctx, admins, admins, config.SeedConfig{AdminEmail: "a@b.co", AdminPassword: "x"})
	assert.Error(t, err)
}
