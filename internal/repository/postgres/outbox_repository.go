package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/walletcore/schedpay/internal/domain/outbox"
)

// OutboxRepository implements outbox.Repository using PostgreSQL.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Enqueue inserts a new pending transaction.
func (r *OutboxRepository) Enqueue(ctx context.Context, tx *outbox.PendingTransaction) error {
	amountStr := minorToNumericString(tx.AmountMinor)
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO outbox_transactions
		 (id, to_address, amount, token, memo, fee_preset, retries, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.ToAddress, amountStr, tx.Token, tx.Memo, string(tx.FeePreset), tx.Retries, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox transaction: %w", err)
	}
	return nil
}

// List returns all pending transactions in FIFO order.
func (r *OutboxRepository) List(ctx context.Context) ([]*outbox.PendingTransaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, to_address, amount, token, memo, fee_preset, retries, created_at
		 FROM outbox_transactions
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list outbox transactions: %w", err)
	}
	defer rows.Close()

	var entries []*outbox.PendingTransaction
	for rows.Next() {
		tx, err := scanPendingTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, tx)
	}
	return entries, rows.Err()
}

// Remove deletes an entry after confirmed submission. Removing an entry that
// is already gone is a no-op.
func (r *OutboxRepository) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db(ctx).Exec(ctx,
		`DELETE FROM outbox_transactions WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("remove outbox transaction: %w", err)
	}
	return nil
}

// IncrementRetries bumps the retry counter and returns the updated record,
// or nil if the entry no longer exists.
func (r *OutboxRepository) IncrementRetries(ctx context.Context, id uuid.UUID) (*outbox.PendingTransaction, error) {
	row := r.db(ctx).QueryRow(ctx,
		`UPDATE outbox_transactions
		 SET retries = retries + 1
		 WHERE id = $1
		 RETURNING id, to_address, amount, token, memo, fee_preset, retries, created_at`,
		id,
	)
	tx, err := scanPendingTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

func scanPendingTransaction(s scanner) (*outbox.PendingTransaction, error) {
	tx := &outbox.PendingTransaction{}
	var (
		amountStr string
		preset    string
	)
	err := s.Scan(&tx.ID, &tx.ToAddress, &amountStr, &tx.Token, &tx.Memo, &preset, &tx.Retries, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan outbox transaction: %w", err)
	}
	minor, err := numericStringToMinor(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	tx.AmountMinor = minor
	tx.FeePreset = outbox.FeePreset(preset)
	return tx, nil
}
