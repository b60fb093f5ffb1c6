package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/walletcore/schedpay/internal/dispatch"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
	"github.com/walletcore/schedpay/internal/domain/schedule"
	"github.com/walletcore/schedpay/internal/infrastructure/observability"
	"github.com/walletcore/schedpay/internal/submitter"
	"github.com/walletcore/schedpay/pkg/retry"
)

// ExecutorConfig tunes a single execution attempt.
type ExecutorConfig struct {
	// MaxAttempts bounds transient retries of one firing. The attempt
	// counter travels in the job payload, never in the schedule row.
	MaxAttempts   int
	Backoff       retry.Config
	SubmitTimeout time.Duration
}

// DefaultExecutorConfig returns the executor defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts: 5,
		Backoff: retry.Config{
			InitialDelay: 30 * time.Second,
			MaxDelay:     15 * time.Minute,
			Multiplier:   2.0,
		},
		SubmitTimeout: 60 * time.Second,
	}
}

// TxManager runs a function inside a storage transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// nopTxManager runs the function directly, for stores without transactions.
type nopTxManager struct{}

func (nopTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// PaymentExecutor runs one execution attempt of a scheduled payment when its
// job fires: validate, submit, interpret the result, update the schedule,
// and re-arm the next occurrence.
type PaymentExecutor struct {
	store      schedule.Repository
	dispatcher dispatch.Dispatcher
	submitter  submitter.Submitter
	tx         TxManager
	cfg        ExecutorConfig
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewPaymentExecutor creates a new PaymentExecutor. A nil tx disables
// transactional grouping of the post-success store writes.
func NewPaymentExecutor(
	store schedule.Repository,
	dispatcher dispatch.Dispatcher,
	sub submitter.Submitter,
	tx TxManager,
	cfg ExecutorConfig,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *PaymentExecutor {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultExecutorConfig()
	}
	if tx == nil {
		tx = nopTxManager{}
	}
	return &PaymentExecutor{
		store:      store,
		dispatcher: dispatcher,
		submitter:  sub,
		tx:         tx,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute processes one firing of a schedule's job.
func (e *PaymentExecutor) Execute(ctx context.Context, job dispatch.Job) error {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.ExecutionDuration.Observe(time.Since(start).Seconds())
		}
	}()

	log := e.logger.With().
		Str("schedule_id", job.ScheduleID.String()).
		Int("attempt", job.Attempt).
		Logger()

	// 1. Load. A missing or non-pending schedule means the job fired for
	// something cancelled or completed out of band; not an error. Any other
	// read failure re-arms the job: the claim already removed it from the
	// queue, so dropping here would lose the firing for good.
	sp, err := e.store.GetByID(ctx, job.ScheduleID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrScheduleNotFound) {
			log.Debug().Err(err).Msg("Schedule gone, dropping job")
			e.countResult("dropped")
			return nil
		}
		delay := retry.BackoffDelay(e.cfg.Backoff, 1)
		log.Warn().Err(err).Dur("retry_in", delay).Msg("Schedule read failed, re-enqueueing job")
		e.countResult("store_error")
		if enqErr := e.dispatcher.Enqueue(ctx, job, delay); enqErr != nil {
			return enqErr
		}
		return err
	}
	if sp.Status != schedule.StatusPending {
		log.Debug().Str("status", string(sp.Status)).Msg("Schedule no longer pending, dropping job")
		e.countResult("dropped")
		return nil
	}

	// 2. Validate still-executable preconditions.
	if !schedule.ShouldContinue(sp.CurrentExecutions, sp.MaxExecutions) {
		log.Info().Msg("Execution bound already reached, completing schedule")
		e.countResult("already_complete")
		return e.store.UpdateStatus(ctx, sp.ID, schedule.StatusCompleted, nil)
	}

	// 3. Submit.
	submitCtx := ctx
	if e.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, e.cfg.SubmitTimeout)
		defer cancel()
	}
	memo := ""
	if sp.Memo != nil {
		memo = *sp.Memo
	}
	conf, err := e.submitter.Submit(submitCtx, submitter.SubmitRequest{
		ToAddress:   sp.RecipientAddress,
		AmountMinor: sp.Amount.ValueMinor,
		Token:       sp.Amount.Token,
		Memo:        memo,
	})
	if err != nil {
		return e.handleFailure(ctx, log, sp, job, err)
	}

	return e.handleSuccess(ctx, log, sp, conf.TxHash)
}

// handleSuccess advances counters, then either completes the schedule or
// re-arms the next occurrence. The counter bump and the follow-up write
// commit together so a crash cannot leave an executed payment unaccounted.
func (e *PaymentExecutor) handleSuccess(ctx context.Context, log zerolog.Logger, sp *schedule.ScheduledPayment, txHash string) error {
	now := time.Now()
	executions := sp.CurrentExecutions + 1
	done := sp.RepeatInterval == schedule.IntervalNone ||
		!schedule.ShouldContinue(executions, sp.MaxExecutions)

	// Compute from the scheduled time rather than now so recurrences do not
	// drift when a firing runs late.
	next := schedule.Next(sp.RepeatInterval, sp.NextExecutionAt)

	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.store.IncrementExecutions(ctx, sp.ID, now); err != nil {
			return err
		}
		if done {
			return e.store.UpdateStatus(ctx, sp.ID, schedule.StatusCompleted, nil)
		}
		return e.store.SetNextExecution(ctx, sp.ID, next)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("tx_hash", txHash).
		Int("executions", executions).
		Msg("Payment executed")
	e.countResult("success")

	if done {
		return nil
	}

	delay := next.Sub(now)
	if delay < 0 {
		delay = 0
	}
	job := dispatch.Job{
		Name:        dispatch.JobName(sp.ID),
		ScheduleID:  sp.ID,
		Attempt:     0,
		Constraints: dispatch.Constraints{RequiresNetwork: true},
	}
	if err := e.dispatcher.Enqueue(ctx, job, delay); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.JobsEnqueued.WithLabelValues("recurrence").Inc()
	}
	return nil
}

// handleFailure applies the failure taxonomy. Transient errors re-enqueue the
// same firing with backoff; permanent errors, auth errors, and an exhausted
// retry budget mark the schedule failed. Neither path ever touches
// current_executions or next_execution_at.
func (e *PaymentExecutor) handleFailure(ctx context.Context, log zerolog.Logger, sp *schedule.ScheduledPayment, job dispatch.Job, submitErr error) error {
	switch submitter.Classify(submitErr) {
	case submitter.ClassTransient:
		nextAttempt := job.Attempt + 1
		if nextAttempt >= e.cfg.MaxAttempts {
			log.Warn().Err(submitErr).Int("attempts", nextAttempt).Msg("Retry budget exhausted, failing schedule")
			e.countResult("failed")
			reason := "retries exhausted: " + submitErr.Error()
			return e.store.UpdateStatus(ctx, sp.ID, schedule.StatusFailed, &reason)
		}

		delay := retry.BackoffDelay(e.cfg.Backoff, nextAttempt)
		log.Warn().Err(submitErr).Dur("retry_in", delay).Msg("Transient submission failure, re-enqueueing attempt")
		e.countResult("transient_failure")
		if e.metrics != nil {
			e.metrics.ExecutionRetries.Inc()
		}
		retryJob := dispatch.Job{
			Name:        job.Name,
			ScheduleID:  job.ScheduleID,
			Attempt:     nextAttempt,
			Constraints: job.Constraints,
		}
		return e.dispatcher.Enqueue(ctx, retryJob, delay)

	case submitter.ClassAuthRequired:
		// Stale credentials are not a transient condition; surfacing the
		// failure in the store is what lets the UI re-prompt.
		log.Warn().Err(submitErr).Msg("Authorization required, failing schedule")
		e.countResult("auth_required")
		reason := "authorization required"
		return e.store.UpdateStatus(ctx, sp.ID, schedule.StatusFailed, &reason)

	default: // ClassPermanent
		log.Warn().Err(submitErr).Msg("Permanent submission failure, failing schedule")
		e.countResult("failed")
		reason := submitErr.Error()
		return e.store.UpdateStatus(ctx, sp.ID, schedule.StatusFailed, &reason)
	}
}

func (e *PaymentExecutor) countResult(result string) {
	if e.metrics != nil {
		e.metrics.ExecutionsTotal.WithLabelValues(result).Inc()
	}
}
