package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/walletcore/schedpay/internal/infrastructure/config"
	"github.com/walletcore/schedpay/internal/infrastructure/observability"
	redisinfra "github.com/walletcore/schedpay/internal/infrastructure/redis"
	customMW "github.com/walletcore/schedpay/internal/middleware"
	"github.com/walletcore/schedpay/internal/service"
)

type RouterDeps struct {
	Pool             *pgxpool.Pool
	RedisClient      *redis.Client
	ScheduleService  *service.ScheduleService
	OutboxService    *service.OutboxService
	IdempotencyStore *redisinfra.IdempotencyStore
	Metrics          *observability.Metrics
	CORSConfig       config.CORSConfig
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	scheduleH := NewScheduleController(deps.ScheduleService)
	outboxH := NewOutboxController(deps.OutboxService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating endpoints.
		idempotencyMW := customMW.Idempotency(deps.IdempotencyStore)

		// Schedules
		r.With(idempotencyMW).Post("/schedules", scheduleH.Create)
		r.Get("/schedules", scheduleH.List)
		r.Get("/schedules/{id}", scheduleH.Get)
		r.Post("/schedules/{id}/cancel", scheduleH.Cancel)
		r.Post("/schedules/{id}/pause", scheduleH.Pause)
		r.Post("/schedules/{id}/resume", scheduleH.Resume)

		// Outbox
		r.With(idempotencyMW).Post("/outbox", outboxH.Enqueue)
		r.Get("/outbox", outboxH.List)
	})

	return r
}
