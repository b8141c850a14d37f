package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomePartial   = "partial"
	OutcomeError     = "error"
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Run metrics
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	AssetsTotal       *prometheus.CounterVec
	AmountDepreciated prometheus.Counter
	LockContention    prometheus.Counter

	// Workflow metrics
	EntriesPosted   prometheus.Counter
	EntriesReversed prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goasset_depreciation_runs_total",
				Help: "Total depreciation runs by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goasset_depreciation_run_duration_seconds",
			Help:    "Duration of depreciation runs",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		AssetsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goasset_depreciation_assets_total",
				Help: "Assets handled by depreciation runs by outcome",
			},
			[]string{"outcome"},
		),
		AmountDepreciated: factory.NewCounter(prometheus.CounterOpts{
			Name: "goasset_depreciation_amount_total",
			Help: "Sum of depreciation amounts recorded by runs",
		}),
		LockContention: factory.NewCounter(prometheus.CounterOpts{
			Name: "goasset_depreciation_lock_contention_total",
			Help: "Requests rejected because the period was locked",
		}),

		EntriesPosted: factory.NewCounter(prometheus.CounterOpts{
			Name: "goasset_depreciation_entries_posted_total",
			Help: "Total depreciation entries posted",
		}),
		EntriesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "goasset_depreciation_entries_reversed_total",
			Help: "Total depreciation entries reversed",
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goasset_outbox_events_total",
				Help: "Outbox events handled by the publisher",
			},
			[]string{"event_type", "status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "goasset_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),
	}
}
