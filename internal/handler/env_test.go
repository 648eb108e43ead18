package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/todobabyrio/todobaby_api/internal/cache"
	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/config"
	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/service"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
	"github.com/todobabyrio/todobaby_api/internal/voice"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
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

type memSettingsRepo struct {
	mu       sync.Mutex
	settings *models.StoreSettings
}

func (r *memSettingsRepo) Get(context.Context) (*models.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, sql.ErrNoRows
	}
	s := *r.settings
	return &s, nil
}

func (r *memSettingsRepo) Upsert(_ context.Context, s *models.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings = &cp
	return nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
}

func (r *memProductRepo) GetAll(context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Product(nil), r.products...), nil
}

func (r *memProductRepo) GetByID(_ context.Context, id int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.products = append(r.products, *p)
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memProductRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *memProductRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, email, password string) (*service.LoginResult, error) {
	if email != "admin@todobaby.co" || password != "secret" {
		return nil, utils.ErrInvalidCredentials
	}
	return &service.LoginResult{Token: "good", Email: email, Name: "Admin", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (stubAuth) Session(_ context.Context, token string) models.Session {
	if token != "good" {
		return models.Session{}
	}
	return models.Session{Authenticated: true, Email: "admin@todobaby.co"}
}

func (stubAuth) Logout(context.Context, string) error { return nil }

func (stubAuth) Authenticate(_ context.Context, token string) (*utils.Claims, error) {
	if token != "good" {
		return nil, utils.ErrInvalidToken
	}
	return &utils.Claims{UserID: 1, Email: "admin@todobaby.co"}, nil
}

type stubImages struct {
	err      error
	filename string
	size     int
	deleted  string
}

func (s *stubImages) Upload(_ context.Context, filename string, data []byte) (*service.UploadedImage, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.filename, s.size = filename, len(data)
	return &service.UploadedImage{URL: "https://cdn.todobaby.co/public/" + filename, Key: "public/" + filename, Size: len(data)}, nil
}

func (s *stubImages) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = key
	return nil
}

type stubAssistant struct {
	lastMessage string
	lastMime    string
	lastHistory []models.ChatMessage
	speechErr   error
}

func (s *stubAssistant) Greeting(context.Context) string { return "¡Hola! Soy Laudith" }

func (s *stubAssistant) Chat(_ context.Context, history []models.ChatMessage, message string) string {
	s.lastHistory, s.lastMessage = history, message
	return "respuesta: " + message
}

func (s *stubAssistant) ChatWithImage(_ context.Context, history []models.ChatMessage, message string, _ []byte, mimeType string) string {
	s.lastHistory, s.lastMessage, s.lastMime = history, message, mimeType
	return "veo una imagen"
}

func (s *stubAssistant) Speak(context.Context, string) ([]byte, error) {
	if s.speechErr != nil {
		return nil, s.speechErr
	}
	return voice.WAV([]byte{0, 0, 1, 0}, voice.OutputSampleRate), nil
}

func (s *stubAssistant) GenerateProductDescription(_ context.Context, name, category string) string {
	return name + " para " + category
}

type stubVoice struct {
	enabled bool
}

func (s *stubVoice) Enabled() bool { return s.enabled }

// Serve echoes one frame back and ends the session.
func (s *stubVoice) Serve(_ context.Context, _ string, browser voice.Downstream) error {
	defer browser.Close()
	mt, data, err := browser.ReadMessage()
	if err != nil {
		return err
	}
	return browser.WriteMessage(mt, data)
}

type testEnv struct {
	router    *gin.Engine
	hub       *sse.Hub
	products  *memProductRepo
	images    *stubImages
	assistant *stubAssistant
	voice     *stubVoice
	health    map[string]HealthCheck
}

func activeProduct(id int, name, category string, price int64) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    decimal.NewFromInt(price),
		Stock:    10,
		Status:   models.ProductStatusActive,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := &memProductRepo{nextID: 3, products: []models.Product{
		activeProduct(1, "Pañales Recién Nacido", "Aseo", 45000),
		activeProduct(2, "Toallitas Húmedas", "Aseo", 12000),
		{ID: 3, Name: "Cobija Descontinuada", Category: "Aseo", Price: decimal.NewFromInt(30000), Status: models.ProductStatusInactive},
	}}

	store := catalog.NewStore()
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)
	products := service.NewProductService(repo, store, notifier)
	require.NoError(t, products.Load(context.Background()))

	kv := &memKV{data: map[string]string{}}
	defaults := service.DefaultSettings(config.StoreConfig{Name: "Todo Baby Rio", WhatsAppNumber: "+573227772131"})
	settings := service.NewSettingsService(&memSettingsRepo{}, cache.NewSettingsCache(kv), defaults, notifier)
	carts := service.NewCartService(cache.NewCartCache(kv, time.Hour), store)
	checkout := service.NewCheckoutService(carts, settings)

	env := &testEnv{
		hub:       hub,
		products:  repo,
		images:    &stubImages{},
		assistant: &stubAssistant{},
		voice:     &stubVoice{},
		health:    map[string]HealthCheck{"postgres": func(context.Context) error { return nil }},
	}

	handlers := &Handlers{
		Health:            NewHealthHandler(store, env.health),
		Product:           NewProductHandler(products),
		Cart:              NewCartHandler(carts),
		Checkout:          NewCheckoutHandler(checkout),
		Settings:          NewSettingsHandler(settings),
		Assistant:         NewAssistantHandler(env.assistant, env.voice, []string{"todobaby.co"}),
		Events:            NewSSEHandler(hub, stubAuth{}),
		Auth:              NewAuthHandler(stubAuth{}),
		ProductManagement: NewProductManagementHandler(products, env.assistant),
		Image:             NewImageHandler(env.images, 1<<10),
	}
	mws := &Middlewares{
		JWT:            middleware.NewJWTMiddleware(stubAuth{}, nil),
		Cart:           middleware.NewCartSession("todo_baby_cart", "cookie-secret", 3600, false),
		LoginLimit:     middleware.NewIPRateLimiter(3),
		AssistantLimit: middleware.NewIPRateLimiter(100),
	}

	env.router = gin.New()
	RegisterRoutes(env.router, handlers, mws)
	return env
}

type envelope struct {
	Success bool             `json:"success"`
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorInfo `json:"error"`
	Meta    utils.Meta       `json:"meta"`
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
	header  http.Header
	raw     io.Reader
}

func (e *testEnv) do(t *testing.T, r request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	body := r.raw
	if r.body != nil {
		b, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if ct := w.Header().Get("Content-Type"); len(ct) >= 16 && ct[:16] == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

var errBoom = errors.New("boom")
