package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
	"github.com/walletcore/schedpay/internal/domain/schedule"
)

const scheduleColumns = `id, recipient_address, recipient_name, amount, token, memo,
		        start_at, next_execution_at, repeat_interval, max_executions,
		        current_executions, status, failure_reason, created_at, updated_at, last_executed_at`

// ScheduleRepository implements schedule.Repository using PostgreSQL. Every
// mutating method is a single guarded UPDATE, which is what makes per-record
// atomicity hold without multi-row coordination.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func (r *ScheduleRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a new scheduled payment.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.ScheduledPayment) error {
	amountStr := minorToNumericString(s.Amount.ValueMinor)

	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO scheduled_payments
		 (id, recipient_address, recipient_name, amount, token, memo,
		  start_at, next_execution_at, repeat_interval, max_executions,
		  current_executions, status, failure_reason, created_at, updated_at, last_executed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		s.ID, s.RecipientAddress, s.RecipientName, amountStr, s.Amount.Token, s.Memo,
		s.StartAt, s.NextExecutionAt, string(s.RepeatInterval), s.MaxExecutions,
		s.CurrentExecutions, string(s.Status), s.FailureReason, s.CreatedAt, s.UpdatedAt, s.LastExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// GetByID retrieves a scheduled payment by its ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*schedule.ScheduledPayment, error) {
	return r.scanSchedule(r.db(ctx).QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM scheduled_payments WHERE id = $1`, id))
}

// UpdateStatus transitions a schedule's status. The WHERE clause only matches
// legal source states for the target status, so an illegal transition (or a
// race with another writer) affects zero rows.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status schedule.Status, failureReason *string) error {
	sources := schedule.AllowedSources(status)
	if len(sources) == 0 {
		return domainErrors.NewDomainError(
			"invalid_transition",
			"no state may transition to "+string(status),
			domainErrors.ErrInvalidStateTransition,
		)
	}
	sourceStrs := make([]string, len(sources))
	for i, s := range sources {
		sourceStrs[i] = string(s)
	}

	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE scheduled_payments
		 SET status = $2, failure_reason = $3, updated_at = NOW()
		 WHERE id = $1 AND status = ANY($4)`,
		id, string(status), failureReason, sourceStrs,
	)
	if err != nil {
		return fmt.Errorf("update schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notFoundOrIllegal(ctx, id)
	}
	return nil
}

// IncrementExecutions records a successful execution. The guard keeps
// current_executions an accurate count of money actually moved even if two
// firings race.
func (r *ScheduleRepository) IncrementExecutions(ctx context.Context, id uuid.UUID, executedAt time.Time) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE scheduled_payments
		 SET current_executions = current_executions + 1,
		     last_executed_at = $2,
		     updated_at = NOW()
		 WHERE id = $1
		   AND (max_executions IS NULL OR current_executions < max_executions)`,
		id, executedAt,
	)
	if err != nil {
		return fmt.Errorf("increment executions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return domainErrors.ErrExecutionsExhausted
	}
	return nil
}

// SetNextExecution moves next_execution_at forward. GREATEST keeps the stored
// value monotonic.
func (r *ScheduleRepository) SetNextExecution(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE scheduled_payments
		 SET next_execution_at = GREATEST(next_execution_at, $2), updated_at = NOW()
		 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("set next execution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrScheduleNotFound
	}
	return nil
}

// ListActive lists schedules in pending status.
func (r *ScheduleRepository) ListActive(ctx context.Context) ([]*schedule.ScheduledPayment, error) {
	pending := schedule.StatusPending
	return r.List(ctx, schedule.ListFilter{Status: &pending})
}

// List lists schedules with optional filters.
func (r *ScheduleRepository) List(ctx context.Context, f schedule.ListFilter) ([]*schedule.ScheduledPayment, error) {
	query := `SELECT ` + scheduleColumns + ` FROM scheduled_payments WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*f.Status))
		argIdx++
	}

	sortOrder := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		sortOrder = "DESC"
	}
	query += " ORDER BY next_execution_at " + sortOrder

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*schedule.ScheduledPayment
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// --- helpers ---

func (r *ScheduleRepository) exists(ctx context.Context, id uuid.UUID) error {
	var one int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT 1 FROM scheduled_payments WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrScheduleNotFound
		}
		return fmt.Errorf("check schedule exists: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) notFoundOrIllegal(ctx context.Context, id uuid.UUID) error {
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	return domainErrors.NewDomainError(
		"invalid_transition",
		"schedule is not in a state that allows this transition",
		domainErrors.ErrInvalidStateTransition,
	)
}

func (r *ScheduleRepository) scanSchedule(s scanner) (*schedule.ScheduledPayment, error) {
	sp := &schedule.ScheduledPayment{}
	var (
		amountStr string
		interval  string
		status    string
	)
	err := s.Scan(
		&sp.ID, &sp.RecipientAddress, &sp.RecipientName, &amountStr, &sp.Amount.Token, &sp.Memo,
		&sp.StartAt, &sp.NextExecutionAt, &interval, &sp.MaxExecutions,
		&sp.CurrentExecutions, &status, &sp.FailureReason, &sp.CreatedAt, &sp.UpdatedAt, &sp.LastExecutedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("scan schedule: %w", err)
	}

	minor, err := numericStringToMinor(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	sp.Amount.ValueMinor = minor
	sp.RepeatInterval = schedule.RepeatInterval(interval)
	sp.Status = schedule.Status(status)
	return sp, nil
}
