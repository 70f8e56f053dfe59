package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commentshub/database"
	"commentshub/internal/config"
	"commentshub/internal/events"
	"commentshub/internal/middleware/auth"
	"commentshub/internal/microservices/http-api/cache"
	"commentshub/internal/microservices/http-api/repository"
	"commentshub/internal/microservices/http-api/repository/memory"
	"commentshub/internal/microservices/http-api/router"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const tokenPurgeInterval = time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Setup structured logging
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("store_unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	store := openCache(cfg, logger)

	publisher := events.NewPublisher(cfg.RabbitMQURL, logger)
	defer publisher.Close()

	hasher := auth.NewHasher(cfg.BcryptCost)
	authService := service.NewAuthService(repos.Users, repos.RefreshTokens, hasher, cfg)
	notificationService := service.NewNotificationService(repos.Notifications)
	services := router.Services{
		Auth:          authService,
		Users:         service.NewUserService(repos.Users, hasher),
		Comments:      service.NewCommentService(repos.Comments, notificationService, publisher, logger),
		Notifications: notificationService,
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router.New(cfg, services, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go purgeTokens(ctx, authService, logger)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", server.Addr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown_failed", "error", err)
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		stop()
		closeStore()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStore returns the repositories for the configured driver and a func
// releasing them.
func openStore(cfg *config.Config, logger *slog.Logger) (repository.Repositories, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New().Repositories(), func() {}, nil
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			logger.Warn("close database", "error", err)
		}
	}
	return repository.NewGormRepositories(db), closeDB, nil
}

// openCache prefers Redis and falls back to an in-process LRU.
func openCache(cfg *config.Config, logger *slog.Logger) cache.Store {
	if !cfg.CacheEnabled {
		return nil
	}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		if err == nil {
			logger.Info("response cache backed by redis")
			return cache.NewRedisStore(client)
		}
		logger.Warn("redis unavailable, caching in memory", "error", err)
	}

	store, err := cache.NewMemoryStore(cfg.CacheMaxEntries)
	if err != nil {
		logger.Warn("response cache disabled", "error", err)
		return nil
	}
	return store
}

func purgeTokens(ctx context.Context, authService service.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired refresh tokens", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired refresh tokens", "count", n)
			}
		}
	}
}
