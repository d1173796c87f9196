package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/trackline/tracking-api/src/cache"
	"github.com/trackline/tracking-api/src/config"
	"github.com/trackline/tracking-api/src/database"
	"github.com/trackline/tracking-api/src/handlers"
	"github.com/trackline/tracking-api/src/logging"
	"github.com/trackline/tracking-api/src/repositories"
	"github.com/trackline/tracking-api/src/server"
	"github.com/trackline/tracking-api/src/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().
		Int("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("starting server")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	tokenService, err := services.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Initialize services
	adminService := services.NewAdminService(repositories.NewPgAdminRepository(db.GetPool()))

	trackingOpts := []services.TrackingOption{}
	var cacheHealth handlers.HealthCheck
	if cfg.CacheEnabled() {
		redisCache := cache.New(cfg.RedisAddr)
		defer redisCache.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, lookups fall back to the database")
		}
		pingCancel()

		trackingOpts = append(trackingOpts, services.WithCache(redisCache, cfg.CacheTTL()))
		cacheHealth = redisCache.Ping
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL()).Msg("tracking cache enabled")
	} else {
		log.Info().Msg("tracking cache disabled (REDIS_ADDR not set)")
	}
	trackingService := services.NewTrackingService(repositories.NewPgTrackingRepository(db.GetPool()), trackingOpts...)

	// Auto-seed admin user on first run (if ADMIN_USERNAME and ADMIN_PASSWORD are set)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := adminService.EnsureAdmin(seedCtx, cfg.AdminUsername, cfg.AdminPassword)
		seedCancel()
		switch {
		case err != nil:
			log.Error().Err(err).Msg("failed to create initial admin user")
		case created:
			log.Info().Str("username", cfg.AdminUsername).Msg("initial admin user created")
		default:
			log.Debug().Msg("admin users exist, skipping seed")
		}
	}

	router := server.NewRouter(server.Deps{
		Config:          cfg,
		DBHealth:        db.Health,
		CacheHealth:     cacheHealth,
		AdminService:    adminService,
		TokenService:    tokenService,
		TrackingService: trackingService,
	})

	// Create HTTP server with timeouts (Slowloris protection)
	srv := &http.Server{
		Addr:              ":" + formatPort(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

func formatPort(port int) string {
	return fmt.Sprintf("%d", port)
}
