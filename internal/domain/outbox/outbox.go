package outbox

import (
	"time"

	"github.com/google/uuid"
	"github.com/walletcore/schedpay/internal/domain/errors"
)

// FeePreset describes the fee/priority tier of a pending transaction.
type FeePreset string

const (
	FeeEconomy  FeePreset = "economy"
	FeeNormal   FeePreset = "normal"
	FeePriority FeePreset = "priority"
)

// Valid reports whether the preset is a known value.
func (f FeePreset) Valid() bool {
	switch f {
	case FeeEconomy, FeeNormal, FeePriority:
		return true
	}
	return false
}

// PendingTransaction is an already-signed submission waiting to reach the
// network endpoint. CreatedAt defines the FIFO drain order; Retries is the
// only field mutated after creation.
type PendingTransaction struct {
	ID          uuid.UUID
	ToAddress   string
	AmountMinor int64
	Token       string
	Memo        *string
	FeePreset   FeePreset
	Retries     int
	CreatedAt   time.Time
}

// NewPendingTransaction creates an outbox entry for a transaction that could
// not be submitted synchronously.
func NewPendingTransaction(toAddress string, amountMinor int64, token string, memo *string, preset FeePreset) (*PendingTransaction, error) {
	if toAddress == "" {
		return nil, errors.NewValidationError("to_address", "cannot be empty")
	}
	if amountMinor <= 0 {
		return nil, errors.NewValidationError("amount", "must be greater than 0")
	}
	if token == "" {
		return nil, errors.NewValidationError("token", "cannot be empty")
	}
	if !preset.Valid() {
		return nil, errors.NewValidationError("fee_preset", "must be one of economy, normal, priority")
	}

	return &PendingTransaction{
		ID:          uuid.New(),
		ToAddress:   toAddress,
		AmountMinor: amountMinor,
		Token:       token,
		Memo:        memo,
		FeePreset:   preset,
		Retries:     0,
		CreatedAt:   time.Now(),
	}, nil
}
