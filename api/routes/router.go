package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdantops/canopy-backend/api/controllers"
	"github.com/verdantops/canopy-backend/api/middleware"
	"github.com/verdantops/canopy-backend/internal/batches"
	"github.com/verdantops/canopy-backend/internal/costs"
	"github.com/verdantops/canopy-backend/internal/harvests"
	"github.com/verdantops/canopy-backend/internal/rooms"
	"github.com/verdantops/canopy-backend/internal/strains"
	"github.com/verdantops/canopy-backend/pkg/config"
	"github.com/verdantops/canopy-backend/pkg/logger"
	"github.com/verdantops/canopy-backend/pkg/metrics"
	pkgredis "github.com/verdantops/canopy-backend/pkg/redis"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Rooms    rooms.Service
	Strains  strains.Service
	Batches  batches.Service
	Harvests harvests.Service
	Costs    costs.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	var readyDeps = map[string]controllers.Pinger{"database": deps.DB}
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		readyDeps["redis"] = deps.Redis
	}
	r.Use(middleware.Idempotency(idempotencyStore, logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/rooms", func(r chi.Router) {
		r.Get("/", controllers.ListRooms(deps.Rooms, logg))
		r.Post("/", controllers.CreateRoom(deps.Rooms, logg))
		r.Get("/{roomId}", controllers.GetRoom(deps.Rooms, logg))
		r.Patch("/{roomId}", controllers.UpdateRoom(deps.Rooms, logg))
		r.Delete("/{roomId}", controllers.DeleteRoom(deps.Rooms, logg))
	})

	r.Route("/api/v1/strains", func(r chi.Router) {
		r.Get("/", controllers.ListStrains(deps.Strains, logg))
		r.Post("/", controllers.CreateStrain(deps.Strains, logg))
		r.Get("/{strainId}", controllers.GetStrain(deps.Strains, logg))
		r.Delete("/{strainId}", controllers.DeleteStrain(deps.Strains, logg))
	})

	r.Route("/api/v1/batches", func(r chi.Router) {
		r.Get("/", controllers.ListBatches(deps.Batches, logg))
		r.Post("/", controllers.CreateBatch(deps.Batches, logg))
		r.Get("/{batchId}", controllers.GetBatch(deps.Batches, logg))
		r.Patch("/{batchId}/status", controllers.UpdateBatchStatus(deps.Batches, logg))
		r.Delete("/{batchId}", controllers.DeleteBatch(deps.Batches, logg))
		r.Post("/{batchId}/harvest", controllers.RecordHarvest(deps.Harvests, logg))
		r.Get("/{batchId}/harvest", controllers.GetHarvest(deps.Harvests, logg))
		r.Get("/{batchId}/cost-to-grow", controllers.BatchCostToGrow(deps.Batches, deps.Costs, logg))
	})

	r.Route("/api/v1/costs", func(r chi.Router) {
		r.Get("/", controllers.ListCostEntries(deps.Costs, logg))
		r.Post("/", controllers.CreateCostEntry(deps.Costs, logg))
		r.Delete("/{costId}", controllers.DeleteCostEntry(deps.Costs, logg))
	})

	return r
}
