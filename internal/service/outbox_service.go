package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walletcore/schedpay/internal/domain/outbox"
)

// OutboxService exposes the pending-transaction queue to callers.
type OutboxService struct {
	repo   outbox.Repository
	logger zerolog.Logger
}

// NewOutboxService creates a new OutboxService.
func NewOutboxService(repo outbox.Repository, logger zerolog.Logger) *OutboxService {
	return &OutboxService{repo: repo, logger: logger}
}

// EnqueueRequest holds the input for queueing a transaction that could not
// be submitted synchronously.
type EnqueueRequest struct {
	ToAddress   string
	AmountMinor int64
	Token       string
	Memo        *string
	FeePreset   outbox.FeePreset
}

// EnqueueTransaction validates and stores a pending transaction.
func (s *OutboxService) EnqueueTransaction(ctx context.Context, req EnqueueRequest) (*outbox.PendingTransaction, error) {
	tx, err := outbox.NewPendingTransaction(req.ToAddress, req.AmountMinor, req.Token, req.Memo, req.FeePreset)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Enqueue(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("outbox_id", tx.ID.String()).
		Str("to", tx.ToAddress).
		Msg("Transaction queued in outbox")
	return tx, nil
}

// ListPending returns the queue in FIFO order. Entries with high retry
// counts stay visible so an operator can intervene.
func (s *OutboxService) ListPending(ctx context.Context) ([]*outbox.PendingTransaction, error) {
	return s.repo.List(ctx)
}
