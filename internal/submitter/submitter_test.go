package submitter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
)

func TestClassify_AuthRequired(t *testing.T) {
	assert.Equal(t, ClassAuthRequired, Classify(domainErrors.ErrAuthRequired))
	wrapped := fmt.Errorf("submit: %w", domainErrors.ErrAuthRequired)
	assert.Equal(t, ClassAuthRequired, Classify(wrapped))
}

func TestClassify_Permanent(t *testing.T) {
	for _, err := range []error{
		domainErrors.ErrInvalidRecipient,
		domainErrors.ErrInsufficientFunds,
		domainErrors.ErrSubmissionRejected,
	} {
		assert.Equal(t, ClassPermanent, Classify(err), "err: %v", err)
	}
}

func TestClassify_Transient(t *testing.T) {
	for _, err := range []error{
		domainErrors.ErrNetworkUnavailable,
		domainErrors.ErrSubmissionTimeout,
		domainErrors.ErrRateLimited,
		context.DeadlineExceeded,
	} {
		assert.Equal(t, ClassTransient, Classify(err), "err: %v", err)
	}
}

func TestClassify_UnknownDefaultsToTransient(t *testing.T) {
	assert.Equal(t, ClassTransient, Classify(errors.New("connection reset by peer")))
}

// --- MockSubmitter ---

func TestMockSubmitter_Success(t *testing.T) {
	s := NewMockSubmitter("test", WithLatency(0))
	conf, err := s.Submit(context.Background(), SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"})
	require.NoError(t, err)
	assert.NotEmpty(t, conf.TxHash)
	assert.False(t, conf.SubmittedAt.IsZero())
}

func TestMockSubmitter_EmptyRecipient(t *testing.T) {
	s := NewMockSubmitter("test", WithLatency(0))
	_, err := s.Submit(context.Background(), SubmitRequest{AmountMinor: 100, Token: "USDC"})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRecipient)
}

func TestMockSubmitter_AlwaysTimesOut(t *testing.T) {
	s := NewMockSubmitter("test", WithLatency(0), WithTimeoutRate(1.0))
	_, err := s.Submit(context.Background(), SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"})
	assert.ErrorIs(t, err, domainErrors.ErrSubmissionTimeout)
	assert.Equal(t, ClassTransient, Classify(err))
}

func TestMockSubmitter_AlwaysRejects(t *testing.T) {
	s := NewMockSubmitter("test", WithLatency(0), WithFailureRate(1.0))
	_, err := s.Submit(context.Background(), SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"})
	assert.ErrorIs(t, err, domainErrors.ErrSubmissionRejected)
	assert.Equal(t, ClassPermanent, Classify(err))
}

func TestMockSubmitter_ContextCancelled(t *testing.T) {
	s := NewMockSubmitter("test", WithLatency(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Submit(ctx, SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- Breaker ---

type failingSubmitter struct {
	err   error
	calls int
}

func (f *failingSubmitter) Name() string { return "failing" }

func (f *failingSubmitter) Submit(ctx context.Context, req SubmitRequest) (*Confirmation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Confirmation{TxHash: "tx", SubmittedAt: time.Now()}, nil
}

func TestBreaker_OpensOnRepeatedTransientFailures(t *testing.T) {
	inner := &failingSubmitter{err: domainErrors.ErrSubmissionTimeout}
	b := NewBreaker(inner, DefaultBreakerSettings(), nil)
	req := SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"}

	for i := 0; i < 10; i++ {
		_, err := b.Submit(context.Background(), req)
		require.Error(t, err)
	}

	// Breaker is now open; the inner submitter must not see the next call.
	callsBefore := inner.calls
	_, err := b.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domainErrors.ErrNetworkUnavailable)
	assert.Equal(t, callsBefore, inner.calls)
}

func TestBreaker_PermanentRejectionsDoNotTrip(t *testing.T) {
	inner := &failingSubmitter{err: domainErrors.ErrSubmissionRejected}
	b := NewBreaker(inner, DefaultBreakerSettings(), nil)
	req := SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"}

	for i := 0; i < 20; i++ {
		_, err := b.Submit(context.Background(), req)
		assert.ErrorIs(t, err, domainErrors.ErrSubmissionRejected)
	}
	assert.Equal(t, 20, inner.calls)
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	inner := &failingSubmitter{}
	b := NewBreaker(inner, DefaultBreakerSettings(), nil)

	conf, err := b.Submit(context.Background(), SubmitRequest{ToAddress: "addr1", AmountMinor: 100, Token: "USDC"})
	require.NoError(t, err)
	assert.Equal(t, "tx", conf.TxHash)
}
