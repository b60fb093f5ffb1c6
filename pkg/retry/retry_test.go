package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsAfterRetries(t *testing.T) {
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	cfg := Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestBackoffDelay_Exponential(t *testing.T) {
	cfg := Config{InitialDelay: 30 * time.Second, MaxDelay: 15 * time.Minute, Multiplier: 2.0}

	assert.Equal(t, 30*time.Second, BackoffDelay(cfg, 1))
	assert.Equal(t, 60*time.Second, BackoffDelay(cfg, 2))
	assert.Equal(t, 120*time.Second, BackoffDelay(cfg, 3))
	assert.Equal(t, 240*time.Second, BackoffDelay(cfg, 4))
}

func TestBackoffDelay_CappedAtMax(t *testing.T) {
	cfg := Config{InitialDelay: 30 * time.Second, MaxDelay: 15 * time.Minute, Multiplier: 2.0}

	assert.Equal(t, 15*time.Minute, BackoffDelay(cfg, 10))
	assert.Equal(t, 15*time.Minute, BackoffDelay(cfg, 100))
}

func TestBackoffDelay_ClampsAttemptToOne(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2.0}

	assert.Equal(t, time.Second, BackoffDelay(cfg, 0))
	assert.Equal(t, time.Second, BackoffDelay(cfg, -5))
}
