package outbox

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for outbox persistence. All operations are
// safe under a drain pass running concurrently with a new enqueue.
type Repository interface {
	// Enqueue inserts a new pending transaction
	Enqueue(ctx context.Context, tx *PendingTransaction) error

	// List returns all pending transactions ordered by created_at ascending
	List(ctx context.Context) ([]*PendingTransaction, error)

	// Remove deletes an entry after a confirmed submission
	Remove(ctx context.Context, id uuid.UUID) error

	// IncrementRetries bumps the retry counter and returns the updated
	// record, or nil if the entry no longer exists.
	IncrementRetries(ctx context.Context, id uuid.UUID) (*PendingTransaction, error)
}
