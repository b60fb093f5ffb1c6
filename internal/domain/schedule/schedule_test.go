package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
)

func intPtr(v int) *int { return &v }

func TestNewScheduledPayment_Valid(t *testing.T) {
	startAt := time.Now().Add(24 * time.Hour)
	sp, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, startAt, IntervalWeekly, intPtr(4))
	require.NoError(t, err)
	assert.Equal(t, "addr1", sp.RecipientAddress)
	assert.Equal(t, StatusPending, sp.Status)
	assert.Equal(t, 0, sp.CurrentExecutions)
	assert.Equal(t, startAt, sp.NextExecutionAt)
	assert.Equal(t, 4, *sp.MaxExecutions)
}

func TestNewScheduledPayment_EmptyRecipient(t *testing.T) {
	_, err := NewScheduledPayment("", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, time.Now(), IntervalNone, nil)
	assert.Error(t, err)
}

func TestNewScheduledPayment_ZeroAmount(t *testing.T) {
	_, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 0, Token: "USDC"}, nil, time.Now(), IntervalNone, nil)
	assert.Error(t, err)
}

func TestNewScheduledPayment_NegativeAmount(t *testing.T) {
	_, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: -100, Token: "USDC"}, nil, time.Now(), IntervalNone, nil)
	assert.Error(t, err)
}

func TestNewScheduledPayment_UnknownInterval(t *testing.T) {
	_, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, time.Now(), RepeatInterval("yearly"), nil)
	assert.Error(t, err)
}

func TestNewScheduledPayment_ZeroMaxExecutions(t *testing.T) {
	_, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, time.Now(), IntervalDaily, intPtr(0))
	assert.Error(t, err)
}

func TestNewScheduledPayment_MaxExecutionsForOneOff(t *testing.T) {
	_, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, time.Now(), IntervalNone, intPtr(3))
	assert.Error(t, err)
}

// --- State machine ---

func newPendingSchedule(t *testing.T) *ScheduledPayment {
	t.Helper()
	sp, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, time.Now(), IntervalDaily, nil)
	require.NoError(t, err)
	return sp
}

func TestTransitions_PendingToTerminal(t *testing.T) {
	for _, target := range []Status{StatusCompleted, StatusCancelled, StatusFailed} {
		sp := newPendingSchedule(t)
		err := sp.TransitionTo(target)
		require.NoError(t, err)
		assert.Equal(t, target, sp.Status)
		assert.True(t, sp.IsTerminal())
	}
}

func TestTransitions_PauseResume(t *testing.T) {
	sp := newPendingSchedule(t)
	require.NoError(t, sp.MarkPaused())
	assert.Equal(t, StatusPaused, sp.Status)
	assert.False(t, sp.IsTerminal())

	require.NoError(t, sp.MarkResumed())
	assert.Equal(t, StatusPending, sp.Status)
}

func TestTransitions_PausedCanCancel(t *testing.T) {
	sp := newPendingSchedule(t)
	require.NoError(t, sp.MarkPaused())
	require.NoError(t, sp.MarkCancelled())
	assert.Equal(t, StatusCancelled, sp.Status)
}

func TestTransitions_PausedCannotComplete(t *testing.T) {
	sp := newPendingSchedule(t)
	require.NoError(t, sp.MarkPaused())
	err := sp.MarkCompleted()
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
}

func TestTransitions_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled, StatusFailed} {
		sp := newPendingSchedule(t)
		require.NoError(t, sp.TransitionTo(terminal))

		for _, target := range []Status{StatusPending, StatusPaused, StatusCompleted, StatusCancelled, StatusFailed} {
			err := sp.TransitionTo(target)
			assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition,
				"transition %s -> %s should be rejected", terminal, target)
		}
	}
}

func TestTransitions_ResumeRequiresPaused(t *testing.T) {
	sp := newPendingSchedule(t)
	err := sp.MarkResumed()
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
}

func TestMarkFailed_StoresReason(t *testing.T) {
	sp := newPendingSchedule(t)
	require.NoError(t, sp.MarkFailed("authorization required"))
	require.NotNil(t, sp.FailureReason)
	assert.Equal(t, "authorization required", *sp.FailureReason)
}

func TestAllowedSources(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusPending}, AllowedSources(StatusCompleted))
	assert.ElementsMatch(t, []Status{StatusPending}, AllowedSources(StatusFailed))
	assert.ElementsMatch(t, []Status{StatusPending}, AllowedSources(StatusPaused))
	assert.ElementsMatch(t, []Status{StatusPending, StatusPaused}, AllowedSources(StatusCancelled))
	assert.ElementsMatch(t, []Status{StatusPaused}, AllowedSources(StatusPending))
}

// --- RecordExecution ---

func TestRecordExecution_IncrementsAndStamps(t *testing.T) {
	sp := newPendingSchedule(t)
	executedAt := time.Now()

	require.NoError(t, sp.RecordExecution(executedAt))
	assert.Equal(t, 1, sp.CurrentExecutions)
	require.NotNil(t, sp.LastExecutedAt)
	assert.Equal(t, executedAt, *sp.LastExecutedAt)
}

func TestRecordExecution_RespectsBound(t *testing.T) {
	sp, err := NewScheduledPayment("addr1", nil, Amount{ValueMinor: 5000, Token: "USDC"}, nil, time.Now(), IntervalDaily, intPtr(2))
	require.NoError(t, err)

	require.NoError(t, sp.RecordExecution(time.Now()))
	require.NoError(t, sp.RecordExecution(time.Now()))

	err = sp.RecordExecution(time.Now())
	assert.ErrorIs(t, err, domainErrors.ErrExecutionsExhausted)
	assert.Equal(t, 2, sp.CurrentExecutions)
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "50.00 USDC", Amount{ValueMinor: 5000, Token: "USDC"}.String())
	assert.Equal(t, "0.05 USDC", Amount{ValueMinor: 5, Token: "USDC"}.String())
}
