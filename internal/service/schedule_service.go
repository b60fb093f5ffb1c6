package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walletcore/schedpay/internal/dispatch"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
	"github.com/walletcore/schedpay/internal/domain/schedule"
	"github.com/walletcore/schedpay/internal/infrastructure/observability"
)

// ScheduleService handles the scheduled-payment lifecycle exposed to callers.
type ScheduleService struct {
	store      schedule.Repository
	dispatcher dispatch.Dispatcher
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	store schedule.Repository,
	dispatcher dispatch.Dispatcher,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{
		store:      store,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateScheduleRequest holds the input for creating a scheduled payment.
type CreateScheduleRequest struct {
	RecipientAddress string
	RecipientName    *string
	AmountMinor      int64
	Token            string
	Memo             *string
	StartAt          time.Time
	RepeatInterval   schedule.RepeatInterval
	MaxExecutions    *int
}

// CreateScheduledPayment validates the request, persists the schedule, and
// arms the first job. The job delay runs until StartAt (zero if the start is
// already due).
func (s *ScheduleService) CreateScheduledPayment(ctx context.Context, req CreateScheduleRequest) (*schedule.ScheduledPayment, error) {
	sp, err := schedule.NewScheduledPayment(
		req.RecipientAddress,
		req.RecipientName,
		schedule.Amount{ValueMinor: req.AmountMinor, Token: req.Token},
		req.Memo,
		req.StartAt,
		req.RepeatInterval,
		req.MaxExecutions,
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, sp); err != nil {
		return nil, err
	}

	delay := time.Until(sp.StartAt)
	if delay < 0 {
		delay = 0
	}
	job := dispatch.Job{
		Name:        dispatch.JobName(sp.ID),
		ScheduleID:  sp.ID,
		Attempt:     0,
		Constraints: dispatch.Constraints{RequiresNetwork: true},
	}
	if err := s.dispatcher.Enqueue(ctx, job, delay); err != nil {
		// The schedule is durable; a failed enqueue must not leave a
		// half-armed record behind.
		reason := "failed to arm execution job: " + err.Error()
		if stErr := s.store.UpdateStatus(ctx, sp.ID, schedule.StatusFailed, &reason); stErr != nil {
			s.logger.Error().Err(stErr).Str("schedule_id", sp.ID.String()).Msg("Failed to mark schedule failed after enqueue error")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SchedulesCreated.WithLabelValues(string(sp.RepeatInterval)).Inc()
		s.metrics.JobsEnqueued.WithLabelValues("create").Inc()
	}
	s.logger.Info().
		Str("schedule_id", sp.ID.String()).
		Str("interval", string(sp.RepeatInterval)).
		Time("start_at", sp.StartAt).
		Msg("Scheduled payment created")

	return sp, nil
}

// CancelPayment cancels a schedule. The job is cancelled before the status
// flips so that a firing already mid-flight observes cancelled at its
// precondition check and aborts.
func (s *ScheduleService) CancelPayment(ctx context.Context, id uuid.UUID) error {
	if err := s.dispatcher.Cancel(ctx, dispatch.JobName(id)); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(ctx, id, schedule.StatusCancelled, nil); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ScheduleTransitions.WithLabelValues(string(schedule.StatusCancelled)).Inc()
	}
	s.logger.Info().Str("schedule_id", id.String()).Msg("Scheduled payment cancelled")
	return nil
}

// PausePayment parks a pending schedule. Same ordering as cancel: job first,
// then status.
func (s *ScheduleService) PausePayment(ctx context.Context, id uuid.UUID) error {
	if err := s.dispatcher.Cancel(ctx, dispatch.JobName(id)); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(ctx, id, schedule.StatusPaused, nil); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ScheduleTransitions.WithLabelValues(string(schedule.StatusPaused)).Inc()
	}
	s.logger.Info().Str("schedule_id", id.String()).Msg("Scheduled payment paused")
	return nil
}

// ResumePayment re-arms a paused schedule at its stored next execution time.
func (s *ScheduleService) ResumePayment(ctx context.Context, id uuid.UUID) error {
	sp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sp.Status != schedule.StatusPaused {
		return domainErrors.NewDomainError(
			"invalid_transition",
			"only a paused schedule can be resumed",
			domainErrors.ErrInvalidStateTransition,
		)
	}

	if err := s.store.UpdateStatus(ctx, id, schedule.StatusPending, nil); err != nil {
		return err
	}

	delay := time.Until(sp.NextExecutionAt)
	if delay < 0 {
		delay = 0
	}
	job := dispatch.Job{
		Name:        dispatch.JobName(id),
		ScheduleID:  id,
		Attempt:     0,
		Constraints: dispatch.Constraints{RequiresNetwork: true},
	}
	if err := s.dispatcher.Enqueue(ctx, job, delay); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ScheduleTransitions.WithLabelValues(string(schedule.StatusPending)).Inc()
		s.metrics.JobsEnqueued.WithLabelValues("resume").Inc()
	}
	s.logger.Info().Str("schedule_id", id.String()).Msg("Scheduled payment resumed")
	return nil
}

// GetSchedule retrieves a single schedule.
func (s *ScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*schedule.ScheduledPayment, error) {
	return s.store.GetByID(ctx, id)
}

// ListActiveSchedules lists schedules awaiting execution.
func (s *ScheduleService) ListActiveSchedules(ctx context.Context) ([]*schedule.ScheduledPayment, error) {
	return s.store.ListActive(ctx)
}

// ListSchedules lists schedules with filters. Failed schedules stay visible
// here with their failure reason until the caller dismisses them.
func (s *ScheduleService) ListSchedules(ctx context.Context, filter schedule.ListFilter) ([]*schedule.ScheduledPayment, error) {
	return s.store.List(ctx, filter)
}
