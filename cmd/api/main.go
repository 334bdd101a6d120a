package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verdantops/canopy-backend/api/routes"
	"github.com/verdantops/canopy-backend/internal/batches"
	"github.com/verdantops/canopy-backend/internal/costs"
	"github.com/verdantops/canopy-backend/internal/harvests"
	"github.com/verdantops/canopy-backend/internal/rooms"
	"github.com/verdantops/canopy-backend/internal/strains"
	"github.com/verdantops/canopy-backend/pkg/config"
	"github.com/verdantops/canopy-backend/pkg/db"
	"github.com/verdantops/canopy-backend/pkg/logger"
	"github.com/verdantops/canopy-backend/pkg/metrics"
	"github.com/verdantops/canopy-backend/pkg/migrate"
	pkgredis "github.com/verdantops/canopy-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis is optional: without it the api serves requests with caching
	// and idempotency replay disabled.
	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Warn(context.Background(), "redis unavailable, caching and idempotency disabled")
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	roomRepo := rooms.NewRepository(dbClient.DB())
	strainRepo := strains.NewRepository(dbClient.DB())
	batchRepo := batches.NewRepository(dbClient.DB())
	harvestRepo := harvests.NewRepository(dbClient.DB())
	costRepo := costs.NewRepository(dbClient.DB())

	var entityCache pkgredis.EntityCache
	if redisClient != nil {
		entityCache = redisClient
	}

	roomService, err := rooms.NewService(roomRepo, batchRepo)
	requireService(logg, "rooms", err)

	strainService, err := strains.NewService(strainRepo)
	requireService(logg, "strains", err)

	batchService, err := batches.NewService(batchRepo, roomRepo, dbClient, entityCache, cfg.Grow.BatchListCacheTTL, logg)
	requireService(logg, "batches", err)

	costService, err := costs.NewService(costRepo, cfg.Grow.ElectricityRatePerLightDay(), logg)
	requireService(logg, "costs", err)

	harvestService, err := harvests.NewService(harvestRepo, batchRepo, costService, dbClient, entityCache, logg)
	requireService(logg, "harvests", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Registry:    registry,
			HTTPMetrics: httpMetrics,
			Rooms:       roomService,
			Strains:     strainService,
			Batches:     batchService,
			Harvests:    harvestService,
			Costs:       costService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
