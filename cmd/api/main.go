package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/snapformstudio/storefront-backend/api/controllers"
	"github.com/snapformstudio/storefront-backend/api/routes"
	"github.com/snapformstudio/storefront-backend/internal/cart"
	"github.com/snapformstudio/storefront-backend/internal/catalog"
	"github.com/snapformstudio/storefront-backend/pkg/config"
	"github.com/snapformstudio/storefront-backend/pkg/db"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
	"github.com/snapformstudio/storefront-backend/pkg/metrics"
	"github.com/snapformstudio/storefront-backend/pkg/redis"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	var closers []func() error
	defer func() {
		if err := multierr.Combine(closeAll(closers)...); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	sessions, sessionBackend, err := buildSessionStore(context.Background(), cfg, logg, &closers)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap session backend", err)
		os.Exit(1)
	}

	shopifyClient, err := shopify.NewClient(context.Background(), cfg.Shopify, logg, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap shopify client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(shopifyClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(shopifyClient, sessions, logg, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"session_backend": cfg.Session.Backend,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, sessionBackend, catalogService, cartStore, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildSessionStore wires the configured session-record backend. The
// returned Pinger feeds the readiness probe; memory has nothing to ping.
func buildSessionStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, closers *[]func() error) (cart.SessionStore, controllers.Pinger, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, redisClient.Close)
		store, err := cart.NewRedisStore(redisClient, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, redisClient, nil

	case config.SessionBackendSQLite, config.SessionBackendPostgres:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, dbClient.Close)
		store, err := cart.NewGormStore(dbClient, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, dbClient, nil

	default:
		return cart.NewMemoryStore(), nil, nil
	}
}

func closeAll(closers []func() error) []error {
	errs := make([]error, 0, len(closers))
	for _, closeFn := range closers {
		errs = append(errs, closeFn())
	}
	return errs
}
