package controller

import (
	"time"

	"github.com/walletcore/schedpay/internal/domain/outbox"
	"github.com/walletcore/schedpay/internal/domain/schedule"
)

// --- Requests ---

type CreateScheduleRequest struct {
	RecipientAddress string    `json:"recipient_address" validate:"required"`
	RecipientName    *string   `json:"recipient_name,omitempty"`
	AmountMinor      int64     `json:"amount_minor" validate:"required,gt=0"`
	Token            string    `json:"token" validate:"required"`
	Memo             *string   `json:"memo,omitempty"`
	StartAt          time.Time `json:"start_at" validate:"required"`
	RepeatInterval   string    `json:"repeat_interval" validate:"required,oneof=none daily weekly monthly"`
	MaxExecutions    *int      `json:"max_executions,omitempty" validate:"omitempty,gt=0"`
}

type EnqueueOutboxRequest struct {
	ToAddress   string  `json:"to_address" validate:"required"`
	AmountMinor int64   `json:"amount_minor" validate:"required,gt=0"`
	Token       string  `json:"token" validate:"required"`
	Memo        *string `json:"memo,omitempty"`
	FeePreset   string  `json:"fee_preset" validate:"required,oneof=economy normal priority"`
}

// --- Responses ---

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ScheduleResponse struct {
	ID                string     `json:"id"`
	RecipientAddress  string     `json:"recipient_address"`
	RecipientName     *string    `json:"recipient_name,omitempty"`
	AmountMinor       int64      `json:"amount_minor"`
	Token             string     `json:"token"`
	Memo              *string    `json:"memo,omitempty"`
	StartAt           time.Time  `json:"start_at"`
	NextExecutionAt   time.Time  `json:"next_execution_at"`
	RepeatInterval    string     `json:"repeat_interval"`
	MaxExecutions     *int       `json:"max_executions,omitempty"`
	CurrentExecutions int        `json:"current_executions"`
	Status            string     `json:"status"`
	FailureReason     *string    `json:"failure_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	LastExecutedAt    *time.Time `json:"last_executed_at,omitempty"`
}

func toScheduleResponse(s *schedule.ScheduledPayment) ScheduleResponse {
	return ScheduleResponse{
		ID:                s.ID.String(),
		RecipientAddress:  s.RecipientAddress,
		RecipientName:     s.RecipientName,
		AmountMinor:       s.Amount.ValueMinor,
		Token:             s.Amount.Token,
		Memo:              s.Memo,
		StartAt:           s.StartAt,
		NextExecutionAt:   s.NextExecutionAt,
		RepeatInterval:    string(s.RepeatInterval),
		MaxExecutions:     s.MaxExecutions,
		CurrentExecutions: s.CurrentExecutions,
		Status:            string(s.Status),
		FailureReason:     s.FailureReason,
		CreatedAt:         s.CreatedAt,
		LastExecutedAt:    s.LastExecutedAt,
	}
}

type OutboxEntryResponse struct {
	ID          string    `json:"id"`
	ToAddress   string    `json:"to_address"`
	AmountMinor int64     `json:"amount_minor"`
	Token       string    `json:"token"`
	Memo        *string   `json:"memo,omitempty"`
	FeePreset   string    `json:"fee_preset"`
	Retries     int       `json:"retries"`
	CreatedAt   time.Time `json:"created_at"`
}

func toOutboxEntryResponse(tx *outbox.PendingTransaction) OutboxEntryResponse {
	return OutboxEntryResponse{
		ID:          tx.ID.String(),
		ToAddress:   tx.ToAddress,
		AmountMinor: tx.AmountMinor,
		Token:       tx.Token,
		Memo:        tx.Memo,
		FeePreset:   string(tx.FeePreset),
		Retries:     tx.Retries,
		CreatedAt:   tx.CreatedAt,
	}
}
