package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/cache"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
	"github.com/spec-kit/ticket-dashboard/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	taxonomy, err := cfg.Analytics.LoadTaxonomy()
	if err != nil {
		logger.Fatal("failed to load taxonomy", zap.Error(err))
	}
	location, err := cfg.Analytics.Location()
	if err != nil {
		logger.Fatal("failed to resolve timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dependencies := map[string]handlers.Pinger{}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var loads repository.LoadRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg, migrations.FS, "postgres", logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		loads = repository.NewPostgresLoadRepository(pg.PoolHandle())
		dependencies["postgres"] = pg
	} else {
		store, err := persistence.NewSQLite(cfg.SQLite, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer store.Close()
		if err := persistence.RunMigrations(ctx, store, migrations.FS, "sqlite", logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		loads = repository.NewSQLiteLoadRepository(store.DB)
		dependencies["sqlite"] = store
	}

	dashboardCache := cache.NewMemory(cfg.Cache.MemoryMaxEntries, cfg.Redis.CacheTTL())
	if redis := persistence.NewRedis(cfg.Redis, logger); redis != nil {
		defer redis.Close()
		dashboardCache = cache.NewRedis(redis.Client, cfg.Redis.CacheTTL())
		dependencies["redis"] = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartDatasetWorker(dispatcher, dashboardCache, logger)

	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		Taxonomy:   taxonomy,
		Location:   location,
		Loads:      loads,
		Cache:      dashboardCache,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	authService := service.NewAuthService(cfg.Auth)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.MaxUploadBytes() + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:           handlers.NewAuthHandler(authService),
		Datasets:       handlers.NewDatasetHandler(dashboardService, cfg.App.MaxUploadBytes()),
		Dashboards:     handlers.NewDashboardHandler(dashboardService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
