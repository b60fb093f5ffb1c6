package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/walletcore/schedpay/internal/bootstrap"
	"github.com/walletcore/schedpay/internal/dispatch"
	infraRedis "github.com/walletcore/schedpay/internal/infrastructure/redis"
	"github.com/walletcore/schedpay/internal/repository/postgres"
	"github.com/walletcore/schedpay/internal/service"
	"github.com/walletcore/schedpay/internal/submitter"
	"github.com/walletcore/schedpay/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "schedpay-worker", "schedpay_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	scheduleRepo := postgres.NewScheduleRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	dispatcher := dispatch.NewRedisDispatcher(app.Redis)

	// --- Submission endpoint ---
	sub := submitter.NewBreaker(
		submitter.NewMockSubmitter("chain-endpoint"),
		submitter.DefaultBreakerSettings(),
		func(name string, from, to gobreaker.State) {
			app.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			app.Metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			if from != gobreaker.StateClosed && to == gobreaker.StateClosed {
				// The endpoint is reachable again; wake every drainer for an
				// immediate outbox pass instead of waiting out the interval.
				if err := infraRedis.PublishNetworkOnline(ctx, app.Redis); err != nil {
					app.Logger.Error().Err(err).Msg("Failed to publish network-online signal")
				}
			}
		},
	)

	// --- Services ---
	schedCfg := app.Config.Scheduler
	executor := service.NewPaymentExecutor(
		scheduleRepo,
		dispatcher,
		sub,
		postgres.NewTxManager(app.Pool),
		service.ExecutorConfig{
			MaxAttempts: schedCfg.MaxAttempts,
			Backoff: retry.Config{
				InitialDelay: schedCfg.InitialRetryDelay,
				MaxDelay:     schedCfg.MaxRetryDelay,
				Multiplier:   schedCfg.RetryMultiplier,
			},
			SubmitTimeout: schedCfg.SubmitTimeout,
		},
		app.Metrics,
		app.Logger,
	)
	drainer := service.NewOutboxDrainer(
		outboxRepo,
		sub,
		service.DrainerConfig{MaxRetries: app.Config.Worker.OutboxMaxRetries},
		app.Metrics,
		app.Logger,
	)

	connectivity := infraRedis.NewConnectivitySignal(ctx, app.Redis)
	defer connectivity.Close()

	app.Logger.Info().
		Str("instance", app.Config.InstanceID).
		Dur("poll_interval", app.Config.Worker.JobPollInterval).
		Msg("Worker started, polling for due jobs...")

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Job poller (claims due jobs and runs execution attempts).
	g.Go(func() error {
		return runJobPoller(gCtx, app, dispatcher, executor)
	})

	// 2. Outbox drainer (interval passes plus connectivity-regained triggers).
	g.Go(func() error {
		return runOutboxDrainer(gCtx, app.Logger, drainer, connectivity, app.Config.Worker.OutboxDrainInterval)
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func runJobPoller(
	ctx context.Context,
	app *bootstrap.App,
	dispatcher *dispatch.RedisDispatcher,
	executor *service.PaymentExecutor,
) error {
	workerCfg := app.Config.Worker
	ticker := time.NewTicker(workerCfg.JobPollInterval)
	defer ticker.Stop()

	pool, poolCtx := errgroup.WithContext(ctx)
	pool.SetLimit(workerCfg.MaxConcurrentJobs)

	for {
		select {
		case <-ctx.Done():
			pool.Wait()
			return nil
		case <-ticker.C:
		}

		jobs, err := dispatcher.Due(ctx, time.Now(), workerCfg.JobBatchSize)
		if err != nil {
			app.Logger.Error().Err(err).Msg("Failed to claim due jobs")
			continue
		}

		for _, job := range jobs {
			job := job
			pool.Go(func() error {
				runJob(poolCtx, app, dispatcher, executor, job)
				return nil
			})
		}
	}
}

func runJob(
	ctx context.Context,
	app *bootstrap.App,
	dispatcher *dispatch.RedisDispatcher,
	executor *service.PaymentExecutor,
	job dispatch.Job,
) {
	lock := infraRedis.NewDistributedLock(app.Redis, job.Name, app.Config.Scheduler.LockTTL)
	acquired, err := lock.Acquire(ctx)
	if err != nil || !acquired {
		// Another instance holds this schedule. The claim removed the job, so
		// push it back rather than dropping the firing.
		app.Logger.Warn().Str("job", job.Name).Msg("Could not acquire lock, re-enqueueing job")
		if err := dispatcher.Enqueue(ctx, job, app.Config.Scheduler.LockTTL); err != nil {
			app.Logger.Error().Err(err).Str("job", job.Name).Msg("Failed to re-enqueue contended job")
		}
		return
	}
	defer lock.Release(ctx)

	if err := executor.Execute(ctx, job); err != nil {
		app.Logger.Error().Err(err).Str("job", job.Name).Msg("Execution attempt errored")
	}
}

func runOutboxDrainer(
	ctx context.Context,
	logger zerolog.Logger,
	drainer *service.OutboxDrainer,
	connectivity *infraRedis.ConnectivitySignal,
	interval time.Duration,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case msg := <-connectivity.Wait():
			if msg != nil {
				logger.Info().Msg("Connectivity regained, draining outbox")
			}
		}

		if err := drainer.Drain(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("Outbox drain pass failed")
		}
	}
}
