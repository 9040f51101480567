package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"urban-kart/internal/config"
	"urban-kart/internal/coupon"
	"urban-kart/internal/database"
	"urban-kart/internal/handler"
	"urban-kart/internal/payment"
	"urban-kart/internal/repository"
	"urban-kart/internal/router"
	"urban-kart/internal/service"

	"github.com/rs/zerolog"
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
	logger.Info().Msg("starting urban-kart API server")

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
	cartRepo := repository.NewCartRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Seed coupons from S3 or a local file, with local fallback. Seeding
	// failures are logged, not fatal: the store runs fine without fresh
	// coupon batches.
	if cfg.CouponSeed.Enabled {
		if err := seedCoupons(ctx, cfg.CouponSeed, couponRepo, logger); err != nil {
			logger.Warn().Err(err).Msg("coupon seeding failed, continuing without fresh coupons")
		}
	}

	// Select payment provider by mode
	var provider payment.Provider
	if cfg.Payment.Mode == config.PaymentModeLive {
		provider = payment.NewPhonePeProvider(cfg.Payment, logger)
	} else {
		provider = payment.NewSandboxProvider(cfg.Payment.BaseURL, logger)
	}
	verifier := payment.NewVerifier(cfg.Payment.SaltKey, cfg.Payment.SaltIndex)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, provider, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	couponHandler := handler.NewCouponHandler(couponService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	callbackHandler := handler.NewCallbackHandler(verifier, orderService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, couponHandler, orderHandler, callbackHandler, logger)

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
			Str("payment_mode", cfg.Payment.Mode).
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

// seedCoupons runs the coupon importer against S3 when enabled, falling back
// to the local seed file when S3 is unavailable.
func seedCoupons(ctx context.Context, cfg config.CouponSeedConfig, couponRepo repository.CouponRepository, logger zerolog.Logger) error {
	importer := coupon.NewImporter(couponRepo, logger)

	if cfg.S3Enabled {
		s3Loader, err := coupon.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, falling back to local file")
		} else {
			err = importer.Run(ctx, s3Loader, cfg.S3Key)
			if err == nil {
				return nil
			}
			logger.Warn().Err(err).Msg("S3 coupon seeding failed, falling back to local file")
		}
	}

	return importer.Run(ctx, coupon.NewFileLoader(logger), cfg.FilePath)
}
