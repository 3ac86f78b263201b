package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"field-kart/internal/catalog"
	"field-kart/internal/config"
	"field-kart/internal/database"
	"field-kart/internal/handler"
	"field-kart/internal/repository"
	"field-kart/internal/router"
	"field-kart/internal/scheme"
	"field-kart/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting field-kart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	schemeRepo := repository.NewSchemeRepository(pool, logger)

	// Initialize the promotion catalog source
	var source catalog.Source
	switch cfg.Catalog.Source {
	case "file":
		source = catalog.NewFileSource(cfg.Catalog.FilePath, logger)
		logger.Info().Str("path", cfg.Catalog.FilePath).Msg("loading scheme catalog from file")
	case "s3":
		source, err = catalog.NewS3Source(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, cfg.Catalog.S3Key, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 catalog source: %w", err)
		}
		logger.Info().
			Str("bucket", cfg.Catalog.S3Bucket).
			Str("key", cfg.Catalog.S3Key).
			Msg("loading scheme catalog from S3")
	default:
		source = catalog.NewRepositorySource(schemeRepo)
	}

	// Optional Redis cache in front of the catalog source
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable at startup, cache will degrade to source reads")
		}

		source = catalog.NewCachedSource(source, redisClient, cfg.Redis.CacheTTL, logger)
		logger.Info().
			Str("addr", cfg.Redis.Addr).
			Dur("ttl", cfg.Redis.CacheTTL).
			Msg("scheme catalog cache enabled")
	}

	// Initialize pricing engine
	engine := &scheme.Engine{StrictVariantMatch: cfg.Pricing.StrictVariantMatch}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, source, engine, logger)
	pricingService := service.NewPricingService(productRepo, source, engine, cfg.Pricing.Currency, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	pricingHandler := handler.NewPricingHandler(pricingService, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, pricingHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
