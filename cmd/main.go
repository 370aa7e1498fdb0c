package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hybee22/football-fixture-api/cache"
	"github.com/Hybee22/football-fixture-api/config"
	"github.com/Hybee22/football-fixture-api/db"
	"github.com/Hybee22/football-fixture-api/handlers"
	"github.com/Hybee22/football-fixture-api/live"
	"github.com/Hybee22/football-fixture-api/repositories"
	api "github.com/Hybee22/football-fixture-api/routes"
	"github.com/Hybee22/football-fixture-api/services"
	"github.com/Hybee22/football-fixture-api/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Crest storage is optional; without R2 credentials the upload
	// endpoint reports the feature as disabled.
	var uploader storage.Uploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("crest storage disabled: R2 credentials not configured")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live fixture hub started")

	cacheStore := cache.NewStore(cfg.CacheTTL)

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	adminService := services.NewAdminService(userRepo, logger)
	teamService := services.NewTeamService(teamRepo, cacheStore, uploader)
	fixtureService := services.NewFixtureService(fixtureRepo, teamRepo, cacheStore, hub)
	searchService := services.NewSearchService(teamRepo, fixtureRepo)
	logger.Info("services initialized")

	if cfg.SuperAdminEmail != "" && cfg.SuperAdminPassword != "" {
		if err := adminService.EnsureSuperAdmin(context.Background(), cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
			logger.Error("failed to seed superadmin account", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("superadmin seeding skipped: SUPER_ADMIN_EMAIL or SUPER_ADMIN_PASSWORD not set")
	}

	jwtSecret := []byte(cfg.JWTSecretKey)

	router := api.InitRoutes(api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, jwtSecret),
		Admin:     handlers.NewAdminHandler(adminService),
		Team:      handlers.NewTeamHandler(teamService),
		Fixture:   handlers.NewFixtureHandler(fixtureService),
		Search:    handlers.NewSearchHandler(searchService),
		WebSocket: handlers.NewWebSocketHandler(hub, fixtureService, logger),
	}, jwtSecret, cfg.RateLimitPerMinute)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
