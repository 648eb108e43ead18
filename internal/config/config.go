package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	JWTTTL         time.Duration
	CookieSecret   string
	AllowedOrigins []string

	DB      DatabaseConfig
	Redis   RedisConfig
	Storage StorageConfig
	Gemini  GeminiConfig
	Store   StoreConfig
	Cart    CartConfig
	Worker  WorkerConfig
	Limits  RateLimitConfig
	Seed    SeedConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig selects and configures the product image bucket.
type StorageConfig struct {
	Driver          string // "s3" or "cloudinary"
	Bucket          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	CloudinaryURL   string
	MaxUploadBytes  int64
}

// GeminiConfig contains credentials and model names for the generative-AI provider.
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	LiveURL   string
	TextModel string
	TTSModel  string
	LiveModel string
	Voice     string
	Timeout   time.Duration
}

// StoreConfig holds the defaults used before an admin saves store settings.
type StoreConfig struct {
	Name           string
	WhatsAppNumber string
}

// CartConfig contains cart persistence settings.
type CartConfig struct {
	TTL        time.Duration
	CookieName string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CatalogSyncInterval time.Duration
}

// RateLimitConfig contains per-IP request budgets.
type RateLimitConfig struct {
	LoginPerMinute     int
	AssistantPerMinute int
}

// SeedConfig holds the admin account created by cmd/seed.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CookieSecret = getEnv("COOKIE_SECRET", cfg.JWTSecret)
	cfg.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"localhost:3000", "127.0.0.1:3000", "localhost:5173"})

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Product image bucket
	cfg.Storage = StorageConfig{
		Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", "s3")),
		Bucket:          getEnv("STORAGE_BUCKET", "product-images"),
		Region:          getEnv("STORAGE_REGION", "us-east-1"),
		Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
		PublicBaseURL:   getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		ForcePathStyle:  getEnvBool("STORAGE_FORCE_PATH_STYLE", false),
		CloudinaryURL:   getEnv("CLOUDINARY_URL", ""),
		MaxUploadBytes:  int64(getEnvInt("STORAGE_MAX_UPLOAD_BYTES", 10<<20)),
	}

	// Gemini
	cfg.Gemini = GeminiConfig{
		APIKey:    getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		BaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		LiveURL:   getEnv("GEMINI_LIVE_URL", "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"),
		TextModel: getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		TTSModel:  getEnv("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		LiveModel: getEnv("GEMINI_LIVE_MODEL", "gemini-2.5-flash-native-audio-preview-09-2025"),
		Voice:     getEnv("GEMINI_VOICE", "Kore"),
	}

	cfg.Store = StoreConfig{
		Name:           getEnv("STORE_NAME", "Todo Baby Rio"),
		WhatsAppNumber: getEnv("STORE_WHATSAPP_NUMBER", "+573227772131"),
	}

	cfg.Cart.CookieName = getEnv("CART_COOKIE_NAME", "todo_baby_cart")

	cfg.Limits = RateLimitConfig{
		LoginPerMinute:     getEnvInt("RATE_LIMIT_LOGIN_PER_MINUTE", 5),
		AssistantPerMinute: getEnvInt("RATE_LIMIT_ASSISTANT_PER_MINUTE", 20),
	}

	cfg.Seed = SeedConfig{
		AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		AdminName:     getEnv("SEED_ADMIN_NAME", "Administrador"),
	}

	// Durations
	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Cart.TTL, err = parseDurationEnv("CART_TTL", "720h"); err != nil {
		return nil, fmt.Errorf("invalid CART_TTL: %w", err)
	}
	if cfg.Worker.CatalogSyncInterval, err = parseDurationEnv("CATALOG_SYNC_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_SYNC_INTERVAL: %w", err)
	}
	if cfg.Gemini.Timeout, err = parseDurationEnv("GEMINI_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	if cfg.Storage.Driver != "s3" && cfg.Storage.Driver != "cloudinary" {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q: use s3 or cloudinary", cfg.Storage.Driver)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
