package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
	"github.com/walletcore/schedpay/internal/domain/outbox"
	"github.com/walletcore/schedpay/internal/domain/schedule"
	"github.com/walletcore/schedpay/internal/dispatch"
	"github.com/walletcore/schedpay/internal/submitter"
)

// --- Schedule Repository Mock ---

// MockScheduleRepository is a mock implementation of schedule.Repository. The
/// default behavior mirrors the guarded updates of the real store: illegal
// transitions and exhausted execution bounds fail the same way.
type MockScheduleRepository struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*schedule.ScheduledPayment

	CreateFunc              func(ctx context.Context, s *schedule.ScheduledPayment) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*schedule.ScheduledPayment, error)
	UpdateStatusFunc        func(ctx context.Context, id uuid.UUID, status schedule.Status, failureReason *string) error
	IncrementExecutionsFunc func(ctx context.Context, id uuid.UUID, executedAt time.Time) error
	SetNextExecutionFunc    func(ctx context.Context, id uuid.UUID, at time.Time) error
	ListActiveFunc          func(ctx context.Context) ([]*schedule.ScheduledPayment, error)
	ListFunc                func(ctx context.Context, filter schedule.ListFilter) ([]*schedule.ScheduledPayment, error)
}

func NewMockScheduleRepository() *MockScheduleRepository {
	return &MockScheduleRepository{
		schedules: make(map[uuid.UUID]*schedule.ScheduledPayment),
	}
}

// AddSchedule pre-populates the mock with a schedule.
func (m *MockScheduleRepository) AddSchedule(s *schedule.ScheduledPayment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ID] = s
}

// GetScheduleByID returns the stored schedule (test helper, no context needed).
func (m *MockScheduleRepository) GetScheduleByID(id uuid.UUID) *schedule.ScheduledPayment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedules[id]
}

func (m *MockScheduleRepository) Create(ctx context.Context, s *schedule.ScheduledPayment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ID] = s
	return nil
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*schedule.ScheduledPayment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, domainErrors.ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *MockScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status schedule.Status, failureReason *string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, failureReason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return domainErrors.ErrScheduleNotFound
	}
	if err := s.TransitionTo(status); err != nil {
		return err
	}
	if status == schedule.StatusFailed {
		s.FailureReason = failureReason
	}
	return nil
}

func (m *MockScheduleRepository) IncrementExecutions(ctx context.Context, id uuid.UUID, executedAt time.Time) error {
	if m.IncrementExecutionsFunc != nil {
		return m.IncrementExecutionsFunc(ctx, id, executedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return domainErrors.ErrScheduleNotFound
	}
	return s.RecordExecution(executedAt)
}

func (m *MockScheduleRepository) SetNextExecution(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.SetNextExecutionFunc != nil {
		return m.SetNextExecutionFunc(ctx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return domainErrors.ErrScheduleNotFound
	}
	if at.After(s.NextExecutionAt) {
		s.NextExecutionAt = at
	}
	return nil
}

func (m *MockScheduleRepository) ListActive(ctx context.Context) ([]*schedule.ScheduledPayment, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	pending := schedule.StatusPending
	return m.List(ctx, schedule.ListFilter{Status: &pending})
}

func (m *MockScheduleRepository) List(ctx context.Context, filter schedule.ListFilter) ([]*schedule.ScheduledPayment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*schedule.ScheduledPayment, 0, len(m.schedules))
	for _, s := range m.schedules {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		copied := *s
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NextExecutionAt.Before(result[j].NextExecutionAt)
	})
	return result, nil
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is a mock implementation of outbox.Repository backed by
// an ordered slice, preserving FIFO semantics.
type MockOutboxRepository struct {
	mu      sync.Mutex
	entries []*outbox.PendingTransaction

	EnqueueFunc          func(ctx context.Context, tx *outbox.PendingTransaction) error
	ListFunc             func(ctx context.Context) ([]*outbox.PendingTransaction, error)
	RemoveFunc           func(ctx context.Context, id uuid.UUID) error
	IncrementRetriesFunc func(ctx context.Context, id uuid.UUID) (*outbox.PendingTransaction, error)
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Enqueue(ctx context.Context, tx *outbox.PendingTransaction) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, tx)
	return nil
}

func (m *MockOutboxRepository) List(ctx context.Context) ([]*outbox.PendingTransaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*outbox.PendingTransaction, 0, len(m.entries))
	for _, tx := range m.entries {
		copied := *tx
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockOutboxRepository) Remove(ctx context.Context, id uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tx := range m.entries {
		if tx.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) IncrementRetries(ctx context.Context, id uuid.UUID) (*outbox.PendingTransaction, error) {
	if m.IncrementRetriesFunc != nil {
		return m.IncrementRetriesFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.entries {
		if tx.ID == id {
			tx.Retries++
			copied := *tx
			return &copied, nil
		}
	}
	return nil, nil
}

// Depth returns the current queue length (test helper).
func (m *MockOutboxRepository) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// --- Dispatcher Mock ---

// EnqueuedJob records one Enqueue call.
type EnqueuedJob struct {
	Job   dispatch.Job
	Delay time.Duration
}

// MockDispatcher is a mock implementation of dispatch.Dispatcher. Pending jobs
// replace by name, matching the at-most-one-in-flight guarantee of the real
// dispatcher. Every Enqueue call is additionally recorded in History.
type MockDispatcher struct {
	mu      sync.Mutex
	pending map[string]EnqueuedJob
	History []EnqueuedJob

	EnqueueFunc func(ctx context.Context, job dispatch.Job, delay time.Duration) error
	CancelFunc  func(ctx context.Context, name string) error
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{pending: make(map[string]EnqueuedJob)}
}

func (m *MockDispatcher) Enqueue(ctx context.Context, job dispatch.Job, delay time.Duration) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, job, delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := EnqueuedJob{Job: job, Delay: delay}
	m.pending[job.Name] = entry
	m.History = append(m.History, entry)
	return nil
}

func (m *MockDispatcher) Cancel(ctx context.Context, name string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, name)
	return nil
}

// Claim removes and returns the job scheduled under name, mimicking a worker
// claiming a due job.
func (m *MockDispatcher) Claim(name string) (EnqueuedJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.pending[name]
	if ok {
		delete(m.pending, name)
	}
	return entry, ok
}

// Pending returns the job currently scheduled under name, if any.
func (m *MockDispatcher) Pending(name string) (EnqueuedJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.pending[name]
	return entry, ok
}

// PendingCount returns the number of distinct scheduled jobs.
func (m *MockDispatcher) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// --- Scripted Submitter ---

// ScriptedSubmitter returns the configured results in order, then keeps
// returning the last one. Useful for transient-then-success sequences.
type ScriptedSubmitter struct {
	mu      sync.Mutex
	results []error
	calls   int

	Requests []submitter.SubmitRequest
}

func NewScriptedSubmitter(results ...error) *ScriptedSubmitter {
	return &ScriptedSubmitter{results: results}
}

func (s *ScriptedSubmitter) Name() string { return "scripted" }

func (s *ScriptedSubmitter) Submit(ctx context.Context, req submitter.SubmitRequest) (*submitter.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)

	var result error
	if len(s.results) > 0 {
		idx := s.calls
		if idx >= len(s.results) {
			idx = len(s.results) - 1
		}
		result = s.results[idx]
	}
	s.calls++

	if result != nil {
		return nil, result
	}
	return &submitter.Confirmation{
		TxHash:      "scripted_tx_" + uuid.New().String()[:8],
		SubmittedAt: time.Now(),
	}, nil
}

// Calls returns how many times Submit was invoked.
func (s *ScriptedSubmitter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
