package submitter

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
)

// MockSubmitter simulates a network submission endpoint with configurable
// latency and failure behavior.
type MockSubmitter struct {
	name        string
	failureRate float64 // 0.0 to 1.0
	timeoutRate float64 // 0.0 to 1.0
	latency     time.Duration
}

type MockSubmitterOption func(*MockSubmitter)

func WithFailureRate(rate float64) MockSubmitterOption {
	return func(s *MockSubmitter) { s.failureRate = rate }
}

func WithTimeoutRate(rate float64) MockSubmitterOption {
	return func(s *MockSubmitter) { s.timeoutRate = rate }
}

func WithLatency(d time.Duration) MockSubmitterOption {
	return func(s *MockSubmitter) { s.latency = d }
}

func NewMockSubmitter(name string, opts ...MockSubmitterOption) *MockSubmitter {
	s := &MockSubmitter{
		name:        name,
		failureRate: 0.0,
		timeoutRate: 0.0,
		latency:     100 * time.Millisecond,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *MockSubmitter) Name() string { return s.name }

func (s *MockSubmitter) Submit(ctx context.Context, req SubmitRequest) (*Confirmation, error) {
	// Simulate latency
	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if req.ToAddress == "" {
		return nil, domainErrors.ErrInvalidRecipient
	}

	// Simulate timeout
	if rand.Float64() < s.timeoutRate {
		return nil, domainErrors.ErrSubmissionTimeout
	}

	// Simulate rejection
	if rand.Float64() < s.failureRate {
		return nil, fmt.Errorf("%s: simulated rejection for %s: %w",
			s.name, req.ToAddress, domainErrors.ErrSubmissionRejected)
	}

	return &Confirmation{
		TxHash:      fmt.Sprintf("%s_tx_%s", s.name, uuid.New().String()[:8]),
		SubmittedAt: time.Now(),
	}, nil
}
