package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// Loader fetches the full product list from the backing table.
type Loader interface {
	GetAll(ctx context.Context) ([]models.Product, error)
}

// Store is the loaded product list. Readers get copies, so callers may
// filter and sort freely.
type Store struct {
	mu       sync.RWMutex
	products []models.Product
	loaded   bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the product list with the loader's result. On failure the
// error is logged and the current list is kept.
func (s *Store) Load(ctx context.Context, loader Loader) error {
	products, err := loader.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load products")
		return err
	}
	s.Replace(products)
	return nil
}

// Replace swaps the whole product list.
func (s *Store) Replace(products []models.Product) {
	cp := make([]models.Product, len(products))
	copy(cp, products)

	s.mu.Lock()
	s.products = cp
	s.loaded = true
	s.mu.Unlock()
}

// Loaded reports whether at least one Load or Replace succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// All returns a copy of every product, inactive ones included.
func (s *Store) All() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]models.Product, len(s.products))
	copy(cp, s.products)
	return cp
}

// Get returns the product with id.
func (s *Store) Get(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Add appends a product that the backend has just created.
func (s *Store) Add(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// Update replaces the product with the same id. Unknown ids are ignored.
func (s *Store) Update(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return
		}
	}
}

// Remove drops the product with id.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	s.products = out
}

// Len returns the number of loaded products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
