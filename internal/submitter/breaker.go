package submitter

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
)

// BreakerSettings tunes the circuit breaker around a Submitter.
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultBreakerSettings returns the settings used when none are provided.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	}
}

// Breaker wraps a Submitter with a circuit breaker so a flapping endpoint
// stops being hammered. An open breaker surfaces as a transient network
// error to the callers.
type Breaker struct {
	inner   Submitter
	breaker *gobreaker.CircuitBreaker[*Confirmation]
}

// NewBreaker wraps the given submitter.
func NewBreaker(inner Submitter, settings BreakerSettings, onStateChange func(name string, from, to gobreaker.State)) *Breaker {
	cb := gobreaker.NewCircuitBreaker[*Confirmation](gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: onStateChange,
		IsSuccessful: func(err error) bool {
			// Permanent rejections are the endpoint doing its job; they
			// must not trip the breaker.
			if err == nil {
				return true
			}
			return Classify(err) == ClassPermanent
		},
	})
	return &Breaker{inner: inner, breaker: cb}
}

var _ Submitter = (*Breaker)(nil)

func (b *Breaker) Name() string { return b.inner.Name() }

func (b *Breaker) Submit(ctx context.Context, req SubmitRequest) (*Confirmation, error) {
	conf, err := b.breaker.Execute(func() (*Confirmation, error) {
		return b.inner.Submit(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domainErrors.NewDomainError(
				"endpoint_unavailable",
				"submission endpoint circuit open",
				domainErrors.ErrNetworkUnavailable,
			)
		}
		return nil, err
	}
	return conf, nil
}
