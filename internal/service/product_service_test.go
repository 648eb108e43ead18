package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

func newProductFixture(t *testing.T) (*ProductService, *fakeProductRepo, *recordingNotifier) {
	t.Helper()
	repo := newFakeProductRepo(
		testProduct(1, "Pañales RN", "Para la Clínica", "12.50", 30, models.ProductStatusActive),
		testProduct(2, "Cojín de lactancia", "Para Mamita", "40", 3, models.ProductStatusActive),
		testProduct(3, "Gorrito", "Para la Clínica", "8", 0, models.ProductStatusInactive),
		testProduct(4, "Pañitos húmedos", "Para la Clínica", "5", 12, models.ProductStatusActive),
	)
	notifier := &recordingNotifier{}
	svc := NewProductService(repo, catalog.NewStore(), notifier)
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo, notifier
}

func TestProductService_StorefrontReads(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	assert.Len(t, svc.List(catalog.Query{}), 3)
	assert.Len(t, svc.List(catalog.Query{Category: "Para la Clínica"}), 2)
	assert.Len(t, svc.AdminList(catalog.Query{}), 4)

	_, err := svc.Get(3)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	related, err := svc.Related(1, catalog.DefaultRelatedLimit)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, 4, related[0].ID)
}

func TestProductService_LoadFailureKeepsStoreEmpty(t *testing.T) {
	repo := newFakeProductRepo()
	repo.err = errors.New("db down")
	svc := NewProductService(repo, catalog.NewStore(), nil)

	assert.Error(t, svc.Load(context.Background()))
	assert.Empty(t, svc.List(catalog.Query{}))
}

func TestProductService_Create(t *testing.T) {
	svc, _, notifier := newProductFixture(t)

	p, err := svc.Create(context.Background(), ProductForm{
		Name:  "Cuna portátil",
		Price: "199.9",
		Stock: "4",
		Tags:  "cuna, viaje, ",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, p.ID)
	assert.Equal(t, catalog.DefaultCategory(), p.Category)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.Equal(t, []string{"cuna", "viaje"}, []string(p.Tags))

	got, err := svc.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "Cuna portátil", got.Name)
	assert.Equal(t, []sse.EventType{sse.EventProductCreated}, notifier.types())
}

func TestProductService_CreateValidation(t *testing.T) {
	svc, _, notifier := newProductFixture(t)

	_, err := svc.Create(context.Background(), ProductForm{Name: " ", Price: "10"})
	assert.True(t, utils.IsValidation(err))
	assert.Empty(t, notifier.types())
}

func TestProductService_BackendFailureLeavesStoreUnchanged(t *testing.T) {
	svc, repo, notifier := newProductFixture(t)
	repo.err = errors.New("timeout")

	_, err := svc.Create(context.Background(), ProductForm{Name: "X", Price: "1"})
	require.Error(t, err)
	assert.Len(t, svc.AdminList(catalog.Query{}), 4)

	err = svc.Delete(context.Background(), 1)
	require.Error(t, err)
	_, err = svc.Get(1)
	assert.NoError(t, err)
	assert.Empty(t, notifier.types())
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	svc, _, notifier := newProductFixture(t)
	ctx := context.Background()

	form := FormFromProduct(&models.Product{Name: "Gorrito", Category: "Para la Clínica", Status: models.ProductStatusActive})
	form.Price = "9.5"
	form.Stock = "6"
	p, err := svc.Update(ctx, 3, form)
	require.NoError(t, err)
	assert.Equal(t, "9.50", p.Price.StringFixed(2))

	visible, err := svc.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 6, visible.Stock)

	_, err = svc.Update(ctx, 99, form)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	require.NoError(t, svc.Delete(ctx, 3))
	_, err = svc.Get(3)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 3), utils.ErrProductNotFound)

	assert.Equal(t, []sse.EventType{sse.EventProductUpdated, sse.EventProductDeleted}, notifier.types())
}

func TestProductService_Dashboard(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	d := svc.Dashboard()
	assert.Equal(t, 4, d.TotalProducts)
	assert.Equal(t, 3, d.ActiveProducts)
	assert.Equal(t, 45, d.StockUnits)
	require.Len(t, d.LowStock, 2)
	assert.Equal(t, 2, d.LowStock[0].ID)

	require.Len(t, d.ByCategory, len(catalog.Categories))
	assert.Equal(t, CategoryCount{Category: "Para la Clínica", Count: 3}, d.ByCategory[0])
}
