package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/cache"
	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/config"
	"github.com/todobabyrio/todobaby_api/internal/database"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/repository"
	"github.com/todobabyrio/todobaby_api/internal/service"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// productWriter is the part of the product table the seeder needs.
type productWriter interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *models.Product) error
}

// adminFinder looks up existing admins so reruns are harmless.
type adminFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

// adminCreator creates admin accounts with hashed passwords.
type adminCreator interface {
	CreateAdmin(ctx context.Context, email, password, name string) error
}

// main prepares a fresh database: schema, demo catalog, store settings and
// the first admin account. Every step is skipped when already done.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, database.DefaultMigrationsSource); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("migrations completed successfully")

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	productRepo := repository.NewProductRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	settingsSvc := service.NewSettingsService(
		repository.NewSettingsRepository(db),
		cache.NewSettingsCache(redisClient),
		service.DefaultSettings(cfg.Store),
		sse.NopNotifier{},
	)
	authSvc := service.NewAdminAuthService(
		adminRepo,
		utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		cache.NewTokenCache(redisClient),
		sse.NopNotifier{},
	)

	// 1. Demo catalog
	inserted, err := seedCatalog(ctx, productRepo, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.Fatal().Err(err).Msg("catalog seed failed")
	}
	log.Info().Int("inserted", inserted).Msg("catalog seeded")

	// 2. Store settings
	if err := settingsSvc.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("settings seed failed")
	}
	log.Info().Msg("settings seeded")

	// 3. Admin account
	created, err := seedAdmin(ctx, adminRepo, authSvc, cfg.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	log.Info().Bool("created", created).Str("email", cfg.Seed.AdminEmail).Msg("admin seeded")
}

// seedCatalog inserts the demo catalog when the product table is empty and
// returns how many products were written.
func seedCatalog(ctx context.Context, repo productWriter, rng *rand.Rand) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Info().Int("existing", count).Msg("products already present, skipping catalog seed")
		return 0, nil
	}

	inserted := 0
	for _, in := range catalog.Seed(rng) {
		var p models.Product
		in.Apply(&p)
		if err := repo.Create(ctx, &p); err != nil {
			return inserted, fmt.Errorf("insert %q: %w", p.Name, err)
		}
		inserted++
	}
	return inserted, nil
}

// seedAdmin creates the configured admin unless it exists. Missing
// credentials skip the step.
func seedAdmin(ctx context.Context, finder adminFinder, creator adminCreator, cfg config.SeedConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set, skipping admin seed")
		return false, nil
	}

	if _, err := finder.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	if err := creator.CreateAdmin(ctx, email, cfg.AdminPassword, cfg.AdminName); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
