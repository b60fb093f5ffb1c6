package submitter

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
)

// SubmitRequest carries the transfer payload for one submission attempt.
type SubmitRequest struct {
	ToAddress   string
	AmountMinor int64
	Token       string
	Memo        string
	FeePreset   string
}

// Confirmation is the endpoint's acknowledgement of an accepted transaction.
type Confirmation struct {
	TxHash      string
	SubmittedAt time.Time
}

// Submitter is the external transaction submission collaborator. Signing and
// wallet authorization happen behind this interface.
type Submitter interface {
	// Name returns the submitter name.
	Name() string
	// Submit sends the transaction to the network endpoint.
	Submit(ctx context.Context, req SubmitRequest) (*Confirmation, error)
}

// Classification buckets submission errors by how the caller must react.
type Classification int

const (
	// ClassTransient errors drive a backoff re-enqueue.
	ClassTransient Classification = iota
	// ClassPermanent errors are terminal for the attempt.
	ClassPermanent
	// ClassAuthRequired means credentials are stale; never retried as
	// transient.
	ClassAuthRequired
)

// Classify maps a submission error to its class. Unknown errors are treated
// as transient: timeouts and connection resets surface in many shapes, and
// retrying an already-applied permanent rejection is the cheaper mistake
// under at-least-once semantics.
func Classify(err error) Classification {
	switch {
	case errors.Is(err, domainErrors.ErrAuthRequired):
		return ClassAuthRequired
	case errors.Is(err, domainErrors.ErrInvalidRecipient),
		errors.Is(err, domainErrors.ErrInsufficientFunds),
		errors.Is(err, domainErrors.ErrSubmissionRejected):
		return ClassPermanent
	case errors.Is(err, domainErrors.ErrNetworkUnavailable),
		errors.Is(err, domainErrors.ErrSubmissionTimeout),
		errors.Is(err, domainErrors.ErrRateLimited),
		errors.Is(err, context.DeadlineExceeded):
		return ClassTransient
	default:
		return ClassTransient
	}
}
