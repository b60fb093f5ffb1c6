package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/walletcore/schedpay/internal/bootstrap"
	"github.com/walletcore/schedpay/internal/controller"
	"github.com/walletcore/schedpay/internal/dispatch"
	infraRedis "github.com/walletcore/schedpay/internal/infrastructure/redis"
	"github.com/walletcore/schedpay/internal/repository/postgres"
	"github.com/walletcore/schedpay/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "schedpay-api", "schedpay")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	scheduleRepo := postgres.NewScheduleRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	idempotencyStore := infraRedis.NewIdempotencyStore(app.Redis, 24*time.Hour)

	// --- Services ---
	dispatcher := dispatch.NewRedisDispatcher(app.Redis)
	scheduleService := service.NewScheduleService(scheduleRepo, dispatcher, app.Metrics, app.Logger)
	outboxService := service.NewOutboxService(outboxRepo, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:             app.Pool,
		RedisClient:      app.Redis,
		ScheduleService:  scheduleService,
		OutboxService:    outboxService,
		IdempotencyStore: idempotencyStore,
		Metrics:          app.Metrics,
		CORSConfig:       app.Config.Server.CORS,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
