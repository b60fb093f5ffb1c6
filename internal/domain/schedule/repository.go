package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for scheduled payment persistence.
// Every mutating operation is atomic with respect to a single record.
type Repository interface {
	// Create persists a new scheduled payment
	Create(ctx context.Context, s *ScheduledPayment) error

	// GetByID retrieves a scheduled payment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduledPayment, error)

	// UpdateStatus transitions a schedule's status, guarding the legal
	// source states. failureReason is only stored for StatusFailed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, failureReason *string) error

	// IncrementExecutions records a successful execution: bumps the counter
	// and stamps lastExecutedAt. Fails with ErrExecutionsExhausted when the
	// bound has already been reached.
	IncrementExecutions(ctx context.Context, id uuid.UUID, executedAt time.Time) error

	// SetNextExecution moves the next execution time forward. The stored
	// value never decreases.
	SetNextExecution(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListActive lists schedules in pending status
	ListActive(ctx context.Context) ([]*ScheduledPayment, error)

	// List lists schedules with filters
	List(ctx context.Context, filter ListFilter) ([]*ScheduledPayment, error)
}

// ListFilter defines filters for listing schedules.
type ListFilter struct {
	Status    *Status
	Limit     int
	Offset    int
	SortOrder string
}
