package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Schedule metrics
	SchedulesCreated    *prometheus.CounterVec
	ScheduleTransitions *prometheus.CounterVec

	// Executor metrics
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration prometheus.Histogram
	ExecutionRetries  prometheus.Counter
	JobsEnqueued      *prometheus.CounterVec

	// Outbox metrics
	OutboxDepth        prometheus.Gauge
	OutboxDrainPasses  prometheus.Counter
	OutboxSubmissions  *prometheus.CounterVec
	OutboxRetries      prometheus.Counter
	OutboxStuckEntries prometheus.Gauge

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		SchedulesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedules_created_total",
				Help:      "Total number of scheduled payments created, by repeat interval",
			},
			[]string{"interval"},
		),
		ScheduleTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedule_transitions_total",
				Help:      "Total number of schedule status transitions",
			},
			[]string{"status"},
		),
		ExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of payment execution attempts by result",
			},
			[]string{"result"},
		),
		ExecutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Payment execution attempt duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		ExecutionRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "execution_retries_total",
				Help:      "Total number of execution attempts re-enqueued with backoff",
			},
		),
		JobsEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_enqueued_total",
				Help:      "Total number of dispatcher jobs enqueued by reason",
			},
			[]string{"reason"},
		),
		OutboxDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "outbox_depth",
				Help:      "Number of pending transactions currently in the outbox",
			},
		),
		OutboxDrainPasses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_drain_passes_total",
				Help:      "Total number of outbox drain passes",
			},
		),
		OutboxSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_submissions_total",
				Help:      "Total number of outbox submission attempts by result",
			},
			[]string{"result"},
		),
		OutboxRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_retries_total",
				Help:      "Total number of outbox entry retry increments",
			},
		),
		OutboxStuckEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "outbox_stuck_entries",
				Help:      "Outbox entries at the retry cap awaiting operator action",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	// Register all collectors
	factory.MustRegister(
		m.SchedulesCreated,
		m.ScheduleTransitions,
		m.ExecutionsTotal,
		m.ExecutionDuration,
		m.ExecutionRetries,
		m.JobsEnqueued,
		m.OutboxDepth,
		m.OutboxDrainPasses,
		m.OutboxSubmissions,
		m.OutboxRetries,
		m.OutboxStuckEntries,
		m.CircuitBreakerState,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
