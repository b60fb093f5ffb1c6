package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Constraints are advisory hints to the host environment about when a job
// should run. The dispatcher itself does not retry; retries are re-enqueued
// by the callers with a backoff-derived delay.
type Constraints struct {
	RequiresNetwork bool `json:"requires_network"`
}

// Job is a durable, named, delayed unit of work. Names are derived
// deterministically from the schedule id so re-arming after each recurrence
// replaces the previous instance.
type Job struct {
	Name        string      `json:"name"`
	ScheduleID  uuid.UUID   `json:"schedule_id"`
	Attempt     int         `json:"attempt"`
	Constraints Constraints `json:"constraints"`
}

// Dispatcher schedules named deferred jobs that survive process restarts.
type Dispatcher interface {
	// Enqueue schedules the job to fire after delay. If a job with the same
	// name is already pending it is atomically replaced, which guarantees
	// at most one in-flight execution attempt per schedule id.
	Enqueue(ctx context.Context, job Job, delay time.Duration) error

	// Cancel removes a pending job by name. Cancelling a job that does not
	// exist is a no-op.
	Cancel(ctx context.Context, name string) error
}

// JobName returns the dispatcher job name for a schedule id.
func JobName(scheduleID uuid.UUID) string {
	return "schedule:" + scheduleID.String()
}
