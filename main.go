package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"usercache-be/internal/cache"
	"usercache-be/internal/config"
	"usercache-be/internal/controllers"
	"usercache-be/internal/database"
	"usercache-be/internal/logger"
	"usercache-be/internal/metrics"
	"usercache-be/internal/middleware"
	"usercache-be/internal/repository"
	"usercache-be/internal/server"
	"usercache-be/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run wires the stores, service and router, serves until a signal arrives,
// then releases resources in reverse order of acquisition
func run(cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repository (Postgres when configured, in-memory otherwise)
	var userRepo repository.UserRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.ConnectRetries)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			return err
		}
		userRepo = repository.NewUserRepository(db)
		log.Info("Using Postgres user repository")
	} else {
		userRepo = repository.NewMemoryUserRepository()
		log.Info("Using in-memory user repository")
	}

	// Initialize cache (Redis when configured, in-memory otherwise)
	var cacheStore cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.ConnectRetries)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		cacheStore = redisCache
		log.Info("Connected to Redis cache")
	} else {
		memoryCache, err := cache.NewMemoryCache(cfg.CacheMaxEntries)
		if err != nil {
			return err
		}
		cacheStore = memoryCache
		log.Info("Using in-memory cache", zap.Int("max_entries", cfg.CacheMaxEntries))
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize services and controllers
	userService := service.NewUserService(userRepo, cacheStore, cfg.CacheTTL, log, appMetrics)
	userController := controllers.NewUserController(userService, log)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	router := server.NewRouter(server.Dependencies{
		UserController: userController,
		RateLimiter:    rateLimiter,
		Logger:         log,
		Metrics:        appMetrics,
		Gatherer:       registry,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}
