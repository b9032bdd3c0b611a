package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/cockroachdb/errors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"presentoir-backend/config"
	"presentoir-backend/internal/api"
	"presentoir-backend/internal/clock"
	"presentoir-backend/internal/db"
	"presentoir-backend/internal/logger"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/notification"
	"presentoir-backend/internal/realtime"
	"presentoir-backend/internal/storage"
	"presentoir-backend/internal/store"
	"presentoir-backend/internal/sweeper"
)

func main() {
	if _, err := logger.Init(os.Getenv(strings.ToUpper(config.EnvPrefix) + "_ENVIRONMENT")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	// The logger may be replaced once the config is read.
	defer func() { _ = zap.L().Sync() }()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		zap.L().Fatal("failed to load configuration", zap.String("path", configPath), zap.Error(err))
	}
	if cfg.Server.Environment != "" {
		if _, err := logger.Init(cfg.Server.Environment); err != nil {
			zap.L().Fatal("failed to initialize logger", zap.Error(err))
		}
	}
	zap.L().Info("configuration loaded", zap.String("path", configPath))

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		zap.L().Warn("VAPID keys are not configured, push notifications are disabled")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		zap.L().Fatal("failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	hub := realtime.NewHub()
	go hub.Run(ctx)

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
	pool.Start(ctx)

	var objects storage.ObjectStore
	if cfg.Storage.Enabled {
		minioStore, err := storage.NewMinIOStore(ctx, cfg.Storage)
		if err != nil {
			zap.L().Fatal("failed to connect to object storage", zap.Error(err))
		}
		objects = minioStore
	}

	realClock := clock.NewRealClock()
	sweeperSvc := sweeper.NewService(cfg, appStore, realClock, pool, hub)
	go sweeperSvc.Run(ctx)

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateBurst)
	go pruneVisitors(ctx, limiter)

	handler := api.NewHandler(api.Deps{
		Store:         appStore,
		WebPush:       webpushOptions,
		Hub:           hub,
		Objects:       objects,
		Notifier:      pool,
		Clock:         realClock,
		Rules:         cfg.Rules,
		Cache:         cache.New(cfg.Server.CacheTTL(), 2*cfg.Server.CacheTTL()),
		PublicBaseURL: cfg.Server.PublicBaseURL,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server, limiter),
	}

	go func() {
		zap.L().Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zap.L().Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("HTTP server Shutdown", zap.Error(err))
	}

	zap.L().Info("server gracefully stopped")
}

// pruneVisitors forgets idle rate limit entries so the map does not grow
// with every client ever seen.
func pruneVisitors(ctx context.Context, limiter *mw.IPRateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(30 * time.Minute); n > 0 {
				zap.L().Debug("pruned idle rate limit entries", zap.Int("removed", n))
			}
		}
	}
}
