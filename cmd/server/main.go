package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/cache"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/config"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/database"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/logging"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/repository"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/routes"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/services"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := config.Load()
	level := logging.ParseLevel(cfg.LogLevel)

	// Structured logging (JSON to stdout)
	logging.Setup(level)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(level),
		pgLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Listing cache
	listingCache := newListingCache(cfg)

	// Uploads
	uploads, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		slog.Error("upload storage unavailable", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Services
	store := repository.NewGormStore(database.DB)
	filter := services.NewContentFilter()
	authService := services.NewAuthService(store, store, cfg)
	identityService := services.NewIdentityService(store, cfg)
	listingService := services.NewListingService(store, listingCache, filter)
	moderationService := services.NewModerationService(store, listingCache)
	favoriteService := services.NewFavoriteService(store)
	inquiryService := services.NewInquiryService(store, filter)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.UploadMaxBytes) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, identityService, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(handlers.PingFunc(database.Ping)),
		Listing:    handlers.NewListingHandler(listingService),
		Moderation: handlers.NewModerationHandler(moderationService),
		Favorite:   handlers.NewFavoriteHandler(favoriteService),
		Inquiry:    handlers.NewInquiryHandler(inquiryService),
		Upload:     handlers.NewUploadHandler(uploads, cfg.PublicBaseURL),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// newListingCache prefers Redis and falls back to an in-process cache when
// REDIS_ADDR is unset or unreachable.
func newListingCache(cfg *config.Config) services.ListingCache {
	if cfg.RedisAddr == "" {
		slog.Info("listing cache: in-memory", "ttl", cfg.ListingCacheTTL.String())
		return cache.NewMemoryCache(cfg.ListingCacheTTL)
	}

	rc := cache.NewRedisCache(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.ListingCacheTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		slog.Warn("redis unreachable, using in-memory listing cache", "addr", cfg.RedisAddr, "error", err)
		return cache.NewMemoryCache(cfg.ListingCacheTTL)
	}

	slog.Info("listing cache: redis", "addr", cfg.RedisAddr, "ttl", cfg.ListingCacheTTL.String())
	return rc
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
