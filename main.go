package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dishdash-api/config"
	"dishdash-api/events"
	"dishdash-api/handlers"
	"dishdash-api/mail"
	"dishdash-api/promotions"
	"dishdash-api/routes"
	"dishdash-api/uploads"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	zlog.Logger = logger
	logger.Info().Msg("starting dishdash API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.InitDB(cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info().Str("path", cfg.Database.Path).Msg("database connected and migrated")

	// Process-local fan-out for order subscriptions.
	bus := events.New()

	mailer := mail.New(cfg.Mail, logger)

	var store uploads.ObjectStore
	if cfg.S3.Enabled {
		store, err = uploads.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize object store: %w", err)
		}
	} else {
		logger.Info().Msg("S3 disabled, file uploads unavailable")
	}

	sweeper := promotions.NewSweeper(config.DB, cfg.Promotions.SweepInterval, logger)
	go sweeper.Run(ctx)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "dishdash-api"})
	})

	routes.SetupRoutes(r, routes.Handlers{
		Accounts:      handlers.NewAccountHandler(mailer, cfg.JWT),
		Orders:        handlers.NewOrderHandler(bus),
		Subscriptions: handlers.NewSubscriptionHandler(bus),
		Payments:      handlers.NewPaymentHandler(cfg.Promotions.Window),
		Uploads:       handlers.NewUploadHandler(store),
	})

	server := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
