package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/verification-backend/config"
	"github.com/ikkim/verification-backend/internal/app/controller"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/internal/app/service"
	"github.com/ikkim/verification-backend/internal/cache"
	"github.com/ikkim/verification-backend/internal/db"
	"github.com/ikkim/verification-backend/internal/metrics"
	"github.com/ikkim/verification-backend/internal/middleware"
	"github.com/ikkim/verification-backend/internal/router"
	"github.com/ikkim/verification-backend/internal/scheduler"
	"github.com/ikkim/verification-backend/internal/storage"
	"github.com/ikkim/verification-backend/pkg/logger"
	"github.com/ikkim/verification-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Server.LogLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting verification API server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Server.LogLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist and the image URL cache
	urlCache := cache.NewNoopImageURLCache()
	var blacklist *redis.TokenBlacklist
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache and token revocation", map[string]interface{}{
				"addr":  cfg.Redis.Addr(),
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
			blacklist = redis.NewTokenBlacklist(redis.GetClient())
			urlCache = cache.NewRedisImageURLCache(redis.GetClient(), cfg.Redis.CacheTTL)
		}
	}

	// Images go to S3 when configured, otherwise they are stored inline as data URLs
	var (
		imageStorage storage.ImageStorage = storage.NewInlineStorage()
		presigner    controller.Presigner
	)
	if cfg.S3.Enabled() {
		s3Storage := storage.NewS3Storage(context.Background(), cfg.S3)
		imageStorage = s3Storage
		presigner = s3Storage
		logger.Info("S3 storage enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
	}
	policy := storage.Policy{
		MaxFileSize:         cfg.Upload.MaxFileSize,
		AllowedContentTypes: cfg.Upload.AllowedContentTypes,
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	imageRepo := repository.NewVerificationImageRepository(db.GetDB())
	requestRepo := repository.NewVerificationRequestRepository(db.GetDB())

	// Initialize services
	var revoker service.TokenRevoker
	var revocationChecker middleware.RevocationChecker
	if blacklist != nil {
		revoker = blacklist
		revocationChecker = blacklist
	}
	authService := service.NewAuthService(
		userRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	verificationService := service.NewVerificationService(
		userRepo,
		imageRepo,
		requestRepo,
		imageStorage,
		policy,
		urlCache,
		appMetrics,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	verificationController := controller.NewVerificationController(verificationService, policy.MaxRequestBytes())
	imageController := controller.NewImageController(verificationService, policy.MaxRequestBytes())
	uploadController := controller.NewUploadController(presigner, policy)
	healthController := controller.NewHealthController(db.Ping)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revocationChecker).WithRoleSource(userRepo)

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		verificationController,
		imageController,
		uploadController,
		healthController,
		authMiddleware,
		registry,
		cfg,
	)
	engine := r.Setup()

	// Backlog monitor
	backlogScheduler := scheduler.NewBacklogScheduler(
		verificationService,
		appMetrics,
		cfg.Scheduler.BacklogSpec,
		cfg.Scheduler.StaleThreshold,
	)
	if err := backlogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start backlog scheduler", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	backlogScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
