package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/cache"
	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/config"
	"github.com/todobabyrio/todobaby_api/internal/database"
	"github.com/todobabyrio/todobaby_api/internal/handler"
	"github.com/todobabyrio/todobaby_api/internal/middleware"
	"github.com/todobabyrio/todobaby_api/internal/repository"
	"github.com/todobabyrio/todobaby_api/internal/service"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/storage"
	"github.com/todobabyrio/todobaby_api/internal/utils"
	"github.com/todobabyrio/todobaby_api/internal/worker"
	"github.com/todobabyrio/todobaby_api/pkg/gemini"
)

// main is the entrypoint for the Todo Baby storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting todo baby api")

	// Cancelled on shutdown; request contexts derive from it so streams and
	// voice sessions end with the server.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.RunMigrations(db.DB, database.DefaultMigrationsSource); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize image bucket
	imageStore, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("image storage initialization failed")
		fmt.Fprintf(os.Stderr, "image storage initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Initialize Gemini client
	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Timeout)
	if !geminiClient.Configured() {
		log.Warn().Msg("GEMINI_API_KEY not set - assistant will answer with fallback messages")
	}

	// 6. Initialize repositories and caches
	productRepo := repository.NewProductRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	cartCache := cache.NewCartCache(redisClient, cfg.Cart.TTL)
	settingsCache := cache.NewSettingsCache(redisClient)
	tokenCache := cache.NewTokenCache(redisClient)

	// 7. Initialize services
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)
	store := catalog.NewStore()
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	productSvc := service.NewProductService(productRepo, store, notifier)
	if err := productSvc.Load(ctx); err != nil {
		// The sync worker retries; the storefront starts empty meanwhile.
		log.Warn().Err(err).Msg("initial catalog load failed")
	}
	settingsSvc := service.NewSettingsService(settingsRepo, settingsCache, service.DefaultSettings(cfg.Store), notifier)
	cartSvc := service.NewCartService(cartCache, store)
	checkoutSvc := service.NewCheckoutService(cartSvc, settingsSvc)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, jwtManager, tokenCache, notifier)
	imageSvc := service.NewImageService(imageStore, cfg.Storage.MaxUploadBytes)
	assistantSvc := service.NewAssistantService(geminiClient, store, settingsSvc, cfg.Gemini)
	voiceSvc := service.NewVoiceService(assistantSvc, service.GeminiDialer(geminiClient, cfg.Gemini.LiveURL))

	// 8. Initialize handlers
	handlers := &handler.Handlers{
		Health: handler.NewHealthHandler(store, map[string]handler.HealthCheck{
			"postgres": db.PingContext,
			"redis":    redisClient.Ping,
		}),
		Product:           handler.NewProductHandler(productSvc),
		Cart:              handler.NewCartHandler(cartSvc),
		Checkout:          handler.NewCheckoutHandler(checkoutSvc),
		Settings:          handler.NewSettingsHandler(settingsSvc),
		Assistant:         handler.NewAssistantHandler(assistantSvc, voiceSvc, cfg.AllowedOrigins),
		Events:            handler.NewSSEHandler(hub, adminAuthSvc),
		Auth:              handler.NewAuthHandler(adminAuthSvc),
		ProductManagement: handler.NewProductManagementHandler(productSvc, assistantSvc),
		Image:             handler.NewImageHandler(imageSvc, cfg.Storage.MaxUploadBytes),
	}

	// 9. Initialize middleware
	loginLimiter := middleware.NewIPRateLimiter(cfg.Limits.LoginPerMinute)
	assistantLimiter := middleware.NewIPRateLimiter(cfg.Limits.AssistantPerMinute)
	loginLimiter.StartCleanup(ctx)
	assistantLimiter.StartCleanup(ctx)

	mws := &handler.Middlewares{
		JWT:            middleware.NewJWTMiddleware(adminAuthSvc, loginLimiter),
		Cart:           middleware.NewCartSession(cfg.Cart.CookieName, cfg.CookieSecret, int(cfg.Cart.TTL.Seconds()), cfg.IsProduction()),
		LoginLimit:     loginLimiter,
		AssistantLimit: assistantLimiter,
	}

	// 10. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	handler.RegisterRoutes(router, handlers, mws)

	// 11. Start workers
	go worker.NewCatalogSyncWorker(productSvc, cfg.Worker.CatalogSyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers, event streams and voice sessions
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// newImageStore selects the bucket backend named by STORAGE_DRIVER.
func newImageStore(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, error) {
	switch cfg.Driver {
	case "cloudinary":
		store, err := storage.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
