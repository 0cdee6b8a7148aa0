// Package metrics provides Prometheus metrics for collection runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonathan/career-news/internal/types"
)

const namespace = "careernews"

// Article outcome labels, one per RunSummary counter.
const (
	OutcomeCollected = "collected"
	OutcomeDuplicate = "duplicate"
	OutcomeFiltered  = "filtered"
	OutcomeAnalyzed  = "analyzed"
	OutcomeError     = "error"
)

// Metrics holds the collectors of one registry. A nil *Metrics records nothing.
type Metrics struct {
	Articles      *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	Runs          *prometheus.CounterVec
	SearchErrors  prometheus.Counter
	Keywords      prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Articles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "articles_total",
				Help:      "Candidate articles by pipeline outcome",
			},
			[]string{"outcome"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of per-article pipeline stages in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Collection runs by final status",
			},
			[]string{"status"},
		),
		SearchErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_errors_total",
				Help:      "Failed keyword searches",
			},
		),
		Keywords: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "keywords_resolved",
				Help:      "Number of keywords resolved per run",
				Buckets:   []float64{5, 10, 15, 20, 25, 30},
			},
		),
	}
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordSearchError counts a failed keyword search.
func (m *Metrics) RecordSearchError() {
	if m == nil {
		return
	}
	m.SearchErrors.Inc()
}

// RecordKeywords observes the resolved keyword count.
func (m *Metrics) RecordKeywords(n int) {
	if m == nil {
		return
	}
	m.Keywords.Observe(float64(n))
}

// RecordRun adds the run's counters and counts the run under status.
func (m *Metrics) RecordRun(status string, s types.RunSummary) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(status).Inc()
	m.Articles.WithLabelValues(OutcomeCollected).Add(float64(s.Collected))
	m.Articles.WithLabelValues(OutcomeDuplicate).Add(float64(s.DuplicatesRemoved))
	m.Articles.WithLabelValues(OutcomeFiltered).Add(float64(s.FilteredOut))
	m.Articles.WithLabelValues(OutcomeAnalyzed).Add(float64(s.Analyzed))
	m.Articles.WithLabelValues(OutcomeError).Add(float64(s.Errors))
}
