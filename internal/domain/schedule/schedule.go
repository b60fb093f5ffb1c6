package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/walletcore/schedpay/internal/domain/errors"
)

// RepeatInterval describes how often a scheduled payment recurs.
type RepeatInterval string

const (
	IntervalNone    RepeatInterval = "none"
	IntervalDaily   RepeatInterval = "daily"
	IntervalWeekly  RepeatInterval = "weekly"
	IntervalMonthly RepeatInterval = "monthly"
)

// Valid reports whether the interval is a known value.
func (i RepeatInterval) Valid() bool {
	switch i {
	case IntervalNone, IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// Status represents the schedule status in the state machine.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Amount represents a token amount in the smallest unit of the token.
type Amount struct {
	ValueMinor int64
	Token      string
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	whole := a.ValueMinor / 100
	frac := a.ValueMinor % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d %s", whole, frac, a.Token)
}

// Validate checks that the amount is valid.
func (a Amount) Validate() error {
	if a.ValueMinor <= 0 {
		return errors.NewValidationError("amount", "must be greater than 0")
	}
	if a.Token == "" {
		return errors.NewValidationError("token", "cannot be empty")
	}
	return nil
}

// ScheduledPayment represents a payment to execute once or repeatedly.
type ScheduledPayment struct {
	ID                uuid.UUID
	RecipientAddress  string
	RecipientName     *string
	Amount            Amount
	Memo              *string
	StartAt           time.Time
	NextExecutionAt   time.Time
	RepeatInterval    RepeatInterval
	MaxExecutions     *int
	CurrentExecutions int
	Status            Status
	FailureReason     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastExecutedAt    *time.Time
}

// NewScheduledPayment creates a new scheduled payment in pending state.
func NewScheduledPayment(
	recipientAddress string,
	recipientName *string,
	amount Amount,
	memo *string,
	startAt time.Time,
	interval RepeatInterval,
	maxExecutions *int,
) (*ScheduledPayment, error) {
	if recipientAddress == "" {
		return nil, errors.NewValidationError("recipient_address", "cannot be empty")
	}
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if !interval.Valid() {
		return nil, errors.NewValidationError("repeat_interval", "must be one of none, daily, weekly, monthly")
	}
	if maxExecutions != nil && *maxExecutions <= 0 {
		return nil, errors.NewValidationError("max_executions", "must be greater than 0 when set")
	}
	if interval == IntervalNone && maxExecutions != nil {
		return nil, errors.NewValidationError("max_executions", "meaningless for a one-off payment")
	}

	now := time.Now()
	return &ScheduledPayment{
		ID:               uuid.New(),
		RecipientAddress: recipientAddress,
		RecipientName:    recipientName,
		Amount:           amount,
		Memo:             memo,
		StartAt:          startAt,
		NextExecutionAt:  startAt,
		RepeatInterval:   interval,
		MaxExecutions:    maxExecutions,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// transitions holds the legal status transitions. Pending and paused are the
// only non-terminal states.
var transitions = map[Status][]Status{
	StatusPending: {
		StatusPaused,
		StatusCompleted,
		StatusCancelled,
		StatusFailed,
	},
	StatusPaused: {
		StatusPending,
		StatusCancelled,
	},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusFailed:    {},
}

// CanTransitionTo checks if the schedule can transition to the given status.
func (s *ScheduledPayment) CanTransitionTo(newStatus Status) bool {
	allowed, exists := transitions[s.Status]
	if !exists {
		return false
	}
	for _, st := range allowed {
		if st == newStatus {
			return true
		}
	}
	return false
}

// AllowedSources returns the statuses from which newStatus may be entered.
func AllowedSources(newStatus Status) []Status {
	var sources []Status
	for from, targets := range transitions {
		for _, to := range targets {
			if to == newStatus {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// TransitionTo transitions the schedule to a new status.
func (s *ScheduledPayment) TransitionTo(newStatus Status) error {
	if !s.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(s.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}
	s.Status = newStatus
	s.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted transitions the schedule to completed status.
func (s *ScheduledPayment) MarkCompleted() error {
	return s.TransitionTo(StatusCompleted)
}

// MarkCancelled transitions the schedule to cancelled status.
func (s *ScheduledPayment) MarkCancelled() error {
	return s.TransitionTo(StatusCancelled)
}

// MarkFailed transitions the schedule to failed status with a reason.
func (s *ScheduledPayment) MarkFailed(reason string) error {
	if err := s.TransitionTo(StatusFailed); err != nil {
		return err
	}
	s.FailureReason = &reason
	return nil
}

// MarkPaused transitions the schedule to paused status.
func (s *ScheduledPayment) MarkPaused() error {
	return s.TransitionTo(StatusPaused)
}

// MarkResumed transitions a paused schedule back to pending.
func (s *ScheduledPayment) MarkResumed() error {
	if s.Status != StatusPaused {
		return errors.NewDomainError(
			"invalid_transition",
			"only a paused schedule can be resumed",
			errors.ErrInvalidStateTransition,
		)
	}
	return s.TransitionTo(StatusPending)
}

// IsTerminal checks if the schedule is in a terminal state.
func (s *ScheduledPayment) IsTerminal() bool {
	return s.Status == StatusCompleted ||
		s.Status == StatusCancelled ||
		s.Status == StatusFailed
}

// RecordExecution applies a successful execution to the in-memory entity.
// CurrentExecutions counts money actually moved, so callers must only invoke
// this after the submission endpoint confirmed the transfer.
func (s *ScheduledPayment) RecordExecution(executedAt time.Time) error {
	if s.MaxExecutions != nil && s.CurrentExecutions >= *s.MaxExecutions {
		return errors.ErrExecutionsExhausted
	}
	s.CurrentExecutions++
	s.LastExecutedAt = &executedAt
	s.UpdatedAt = time.Now()
	return nil
}
