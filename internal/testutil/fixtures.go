package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/walletcore/schedpay/internal/domain/outbox"
	"github.com/walletcore/schedpay/internal/domain/schedule"
)

func NewTestSchedule(interval schedule.RepeatInterval, startAt time.Time, maxExecutions *int) *schedule.ScheduledPayment {
	now := time.Now()
	return &schedule.ScheduledPayment{
		ID:               uuid.New(),
		RecipientAddress: "addr_" + uuid.New().String()[:8],
		Amount:           schedule.Amount{ValueMinor: 5000, Token: "USDC"},
		StartAt:          startAt,
		NextExecutionAt:  startAt,
		RepeatInterval:   interval,
		MaxExecutions:    maxExecutions,
		Status:           schedule.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func NewTestOutboxEntry(toAddress string, amountMinor int64) *outbox.PendingTransaction {
	return &outbox.PendingTransaction{
		ID:          uuid.New(),
		ToAddress:   toAddress,
		AmountMinor: amountMinor,
		Token:       "USDC",
		FeePreset:   outbox.FeeNormal,
		CreatedAt:   time.Now(),
	}
}

func IntPtr(v int) *int {
	return &v
}

func StrPtr(s string) *string {
	return &s
}
