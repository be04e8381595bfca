package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/turtacn/diabrisk/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	AssessmentsTotal      *prometheus.CounterVec
	AssessmentLatency     *prometheus.HistogramVec
	ScoreDistribution     prometheus.Histogram
	PersistenceLatency    *prometheus.HistogramVec
	PersistenceErrors     *prometheus.CounterVec
	CorruptRecords        *prometheus.CounterVec
	ConfigReloads         *prometheus.CounterVec
	HTTPRequests          *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  *prometheus.GaugeVec
	IdempotentReplayTotal prometheus.Counter
}

// NewMetrics creates and registers the Prometheus metrics on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	ns := constants.MetricsNamespace
	return &Metrics{
		AssessmentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "assessments_total",
				Help:      "Total number of assessments by tier and result.",
			},
			[]string{"tier", "result"},
		),
		AssessmentLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "assessment_duration_seconds",
				Help:      "Latency of assessments from receipt to report.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		ScoreDistribution: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "assessment_score",
				Help:      "Distribution of total risk scores.",
				Buckets:   prometheus.LinearBuckets(0, 2, 16),
			},
		),
		PersistenceLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "ledger_commit_duration_seconds",
				Help:      "Latency of statistics and history commits.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		PersistenceErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "ledger_commit_errors_total",
				Help:      "Total number of failed statistics and history commits.",
			},
			[]string{"backend"},
		),
		CorruptRecords: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "corrupt_records_total",
				Help:      "History or statistics entries skipped because they could not be parsed.",
			},
			[]string{"backend"},
		),
		ConfigReloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "config_reloads_total",
				Help:      "Scoring table reload attempts.",
			},
			[]string{"result"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"path", "method", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Name:      "http_requests_in_flight",
				Help:      "HTTP requests currently being served.",
			},
			[]string{"path", "method"},
		),
		IdempotentReplayTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "idempotent_replays_total",
				Help:      "Responses served from the idempotency cache.",
			},
		),
	}
}

// RecordAssessment records metrics for one finished assessment.
func (m *Metrics) RecordAssessment(tier, result string, duration time.Duration) {
	m.AssessmentsTotal.WithLabelValues(tier, result).Inc()
	m.AssessmentLatency.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordCommit records metrics for a ledger commit.
func (m *Metrics) RecordCommit(backend string, duration time.Duration, failed bool) {
	m.PersistenceLatency.WithLabelValues(backend).Observe(duration.Seconds())
	if failed {
		m.PersistenceErrors.WithLabelValues(backend).Inc()
	}
}
