package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walletcore/schedpay/internal/domain/outbox"
	"github.com/walletcore/schedpay/internal/infrastructure/observability"
	"github.com/walletcore/schedpay/internal/submitter"
)

// DrainerConfig tunes the outbox drainer.
type DrainerConfig struct {
	// MaxRetries caps automatic resubmission of one entry. Entries at the
	// cap are skipped by drain passes but stay in the queue for operator
	// action.
	MaxRetries int
}

// OutboxDrainer flushes the outbox through the submission endpoint. A pass
// works on the snapshot taken at invocation start; entries enqueued during a
// running pass wait for the next one.
type OutboxDrainer struct {
	repo      outbox.Repository
	submitter submitter.Submitter
	cfg       DrainerConfig
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewOutboxDrainer creates a new OutboxDrainer.
func NewOutboxDrainer(
	repo outbox.Repository,
	sub submitter.Submitter,
	cfg DrainerConfig,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *OutboxDrainer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	return &OutboxDrainer{
		repo:      repo,
		submitter: sub,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Drain runs one pass over the queue in FIFO order. Successes are removed;
// failures get their retry counter bumped and keep their queue position, so
// older sends are always retried before newer ones.
func (d *OutboxDrainer) Drain(ctx context.Context) error {
	entries, err := d.repo.List(ctx)
	if err != nil {
		return err
	}
	if d.metrics != nil {
		d.metrics.OutboxDrainPasses.Inc()
		d.metrics.OutboxDepth.Set(float64(len(entries)))
	}
	if len(entries) == 0 {
		return nil
	}

	var stuck int
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if entry.Retries >= d.cfg.MaxRetries {
			stuck++
			d.logger.Warn().
				Str("outbox_id", entry.ID.String()).
				Int("retries", entry.Retries).
				Msg("Outbox entry at retry cap, awaiting operator action")
			continue
		}

		d.attempt(ctx, entry)
	}

	if d.metrics != nil {
		d.metrics.OutboxStuckEntries.Set(float64(stuck))
	}
	return nil
}

func (d *OutboxDrainer) attempt(ctx context.Context, entry *outbox.PendingTransaction) {
	memo := ""
	if entry.Memo != nil {
		memo = *entry.Memo
	}
	conf, err := d.submitter.Submit(ctx, submitter.SubmitRequest{
		ToAddress:   entry.ToAddress,
		AmountMinor: entry.AmountMinor,
		Token:       entry.Token,
		Memo:        memo,
		FeePreset:   string(entry.FeePreset),
	})
	if err != nil {
		updated, incErr := d.repo.IncrementRetries(ctx, entry.ID)
		if incErr != nil {
			d.logger.Error().Err(incErr).Str("outbox_id", entry.ID.String()).Msg("Failed to record outbox retry")
			return
		}
		retries := entry.Retries + 1
		if updated != nil {
			retries = updated.Retries
		}
		d.logger.Warn().
			Err(err).
			Str("outbox_id", entry.ID.String()).
			Int("retries", retries).
			Msg("Outbox submission failed")
		if d.metrics != nil {
			d.metrics.OutboxSubmissions.WithLabelValues("failure").Inc()
			d.metrics.OutboxRetries.Inc()
		}
		return
	}

	if err := d.repo.Remove(ctx, entry.ID); err != nil {
		// The submission went through; the entry will be retried and the
		// endpoint has to dedupe. At-least-once is the contract.
		d.logger.Error().Err(err).Str("outbox_id", entry.ID.String()).Msg("Failed to remove drained outbox entry")
		return
	}
	d.logger.Info().
		Str("outbox_id", entry.ID.String()).
		Str("tx_hash", conf.TxHash).
		Msg("Outbox entry submitted")
	if d.metrics != nil {
		d.metrics.OutboxSubmissions.WithLabelValues("success").Inc()
	}
}
