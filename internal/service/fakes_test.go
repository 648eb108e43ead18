package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/todobabyrio/todobaby_api/internal/cache"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/pkg/gemini"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int]models.Product
	nextID   int
	err      error
}

func newFakeProductRepo(products ...models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[int]models.Product), nextID: 1}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeProductRepo) GetAll(context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.Product, 0, len(r.products))
	for id := 1; id < r.nextID; id++ {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	p.UpdatedAt = time.Now()
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.products[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), r.err
}

type fakeSettingsRepo struct {
	stored *models.StoreSettings
	err    error
	writes int
}

func (r *fakeSettingsRepo) Get(context.Context) (*models.StoreSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.stored == nil {
		return nil, sql.ErrNoRows
	}
	cp := *r.stored
	return &cp, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, s *models.StoreSettings) error {
	if r.err != nil {
		return r.err
	}
	cp := *s
	r.stored = &cp
	r.writes++
	return nil
}

type fakeSettingsStore struct {
	stored *models.StoreSettings
	err    error
}

func (c *fakeSettingsStore) Get(context.Context) (*models.StoreSettings, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.stored == nil {
		return nil, cache.ErrMiss
	}
	cp := *c.stored
	return &cp, nil
}

func (c *fakeSettingsStore) Set(_ context.Context, s *models.StoreSettings) error {
	if c.err != nil {
		return c.err
	}
	cp := *s
	c.stored = &cp
	return nil
}

type fakeCartStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]models.Cart)}
}

func (s *fakeCartStore) Get(_ context.Context, id string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return &models.Cart{ID: id, Items: []models.CartItem{}}, nil
	}
	return &c, nil
}

func (s *fakeCartStore) Save(_ context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.ID] = *c
	return nil
}

func (s *fakeCartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

type fakeAdminRepo struct {
	users   map[string]models.AdminUser
	touched []int
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (r *fakeAdminRepo) Create(_ context.Context, u *models.AdminUser) error {
	if r.users == nil {
		r.users = make(map[string]models.AdminUser)
	}
	u.ID = len(r.users) + 1
	r.users[u.Email] = *u
	return nil
}

func (r *fakeAdminRepo) TouchLastLogin(_ context.Context, id int) error {
	r.touched = append(r.touched, id)
	return nil
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (f *fakeRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[id] = ttl
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := f.revoked[id]
	return ok, nil
}

type recordedEvent struct {
	event sse.EventType
	data  any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(event sse.EventType, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{event, data})
}

func (n *recordingNotifier) types() []sse.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sse.EventType, len(n.events))
	for i, e := range n.events {
		out[i] = e.event
	}
	return out
}

type fakeGenerator struct {
	configured bool
	reply      string
	audio      []byte
	err        error
	requests   []*gemini.GenerateContentRequest
}

func (g *fakeGenerator) Configured() bool { return g.configured }

func (g *fakeGenerator) GenerateContent(_ context.Context, _ string, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &gemini.GenerateContentResponse{Candidates: []gemini.Candidate{{
		Content: gemini.Content{Role: "model", Parts: []gemini.Part{gemini.TextPart(g.reply)}},
	}}}, nil
}

func (g *fakeGenerator) Speak(context.Context, string, string, string) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.audio, nil
}

func testProduct(id int, name, category, price string, stock int, status models.ProductStatus) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Status:   status,
	}
}
