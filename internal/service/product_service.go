package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// LowStockThreshold marks products that need restocking on the dashboard.
const LowStockThreshold = 5

// ProductService serves the storefront catalog and the admin CRUD. The
// in-memory store is only touched after the table write succeeded.
type ProductService struct {
	repo     ProductRepository
	store    *catalog.Store
	notifier sse.Notifier
}

// NewProductService constructs a ProductService.
func NewProductService(repo ProductRepository, store *catalog.Store, notifier sse.Notifier) *ProductService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &ProductService{repo: repo, store: store, notifier: notifier}
}

// Load fetches every product into the store. A failure leaves the store
// empty (or unchanged) and is logged.
func (s *ProductService) Load(ctx context.Context) error {
	if err := s.store.Load(ctx, s.repo); err != nil {
		return err
	}
	log.Info().Int("products", s.store.Len()).Msg("Catalog loaded")
	return nil
}

// List returns storefront products matching the query.
func (s *ProductService) List(q catalog.Query) []models.Product {
	return catalog.Filter(s.store.All(), q)
}

// Get returns a product visible on the storefront.
func (s *ProductService) Get(id int) (*models.Product, error) {
	p, ok := s.store.Get(id)
	if !ok || !p.IsActive() {
		return nil, utils.ErrProductNotFound
	}
	return &p, nil
}

// Related returns active products of the same category.
func (s *ProductService) Related(id, limit int) ([]models.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	active := catalog.Filter(s.store.All(), catalog.Query{})
	return catalog.Related(active, p, limit), nil
}

// AdminList returns every product, inactive ones included.
func (s *ProductService) AdminList(q catalog.Query) []models.Product {
	q.IncludeInactive = true
	return catalog.Filter(s.store.All(), q)
}

// AdminGet returns any product by id, reading through to the table when the
// store does not know it.
func (s *ProductService) AdminGet(ctx context.Context, id int) (*models.Product, error) {
	if p, ok := s.store.Get(id); ok {
		return &p, nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a product from the admin form.
func (s *ProductService) Create(ctx context.Context, form ProductForm) (*models.Product, error) {
	in, err := form.ToInput()
	if err != nil {
		return nil, err
	}

	var p models.Product
	in.Apply(&p)
	if err := s.repo.Create(ctx, &p); err != nil {
		log.Error().Err(err).Str("name", p.Name).Msg("Failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.store.Add(p)
	log.Info().Int("product_id", p.ID).Str("name", p.Name).Msg("Product created")
	s.notifier.Notify(sse.EventProductCreated, p)
	return &p, nil
}

// Update replaces the editable fields of product id.
func (s *ProductService) Update(ctx context.Context, id int, form ProductForm) (*models.Product, error) {
	in, err := form.ToInput()
	if err != nil {
		return nil, err
	}

	current, err := s.AdminGet(ctx, id)
	if err != nil {
		return nil, err
	}

	p := *current
	in.Apply(&p)
	if err := s.repo.Update(ctx, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		log.Error().Err(err).Int("product_id", id).Msg("Failed to update product")
		return nil, fmt.Errorf("update product: %w", err)
	}

	if _, ok := s.store.Get(id); ok {
		s.store.Update(p)
	} else {
		s.store.Add(p)
	}
	log.Info().Int("product_id", id).Msg("Product updated")
	s.notifier.Notify(sse.EventProductUpdated, p)
	return &p, nil
}

// Delete removes product id.
func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		log.Error().Err(err).Int("product_id", id).Msg("Failed to delete product")
		return fmt.Errorf("delete product: %w", err)
	}

	s.store.Remove(id)
	log.Info().Int("product_id", id).Msg("Product deleted")
	s.notifier.Notify(sse.EventProductDeleted, map[string]int{"id": id})
	return nil
}

// CategoryCount is one row of the dashboard breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalProducts  int              `json:"totalProducts"`
	ActiveProducts int              `json:"activeProducts"`
	StockUnits     int              `json:"stockUnits"`
	ByCategory     []CategoryCount  `json:"byCategory"`
	LowStock       []models.Product `json:"lowStock"`
}

// Dashboard summarizes the loaded catalog.
func (s *ProductService) Dashboard() Dashboard {
	products := s.store.All()
	d := Dashboard{TotalProducts: len(products), LowStock: []models.Product{}}

	counts := make(map[string]int)
	for _, p := range products {
		if p.IsActive() {
			d.ActiveProducts++
		}
		d.StockUnits += p.Stock
		counts[p.Category]++
		if p.Stock < LowStockThreshold {
			d.LowStock = append(d.LowStock, p)
		}
	}

	for _, c := range catalog.Categories {
		d.ByCategory = append(d.ByCategory, CategoryCount{Category: c, Count: counts[c]})
		delete(counts, c)
	}
	var extra []string
	for c := range counts {
		extra = append(extra, c)
	}
	sort.Strings(extra)
	for _, c := range extra {
		d.ByCategory = append(d.ByCategory, CategoryCount{Category: c, Count: counts[c]})
	}
	return d
}
