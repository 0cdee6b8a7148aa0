package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-news/internal/types"
)

func TestRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordRun("completed", types.RunSummary{Collected: 10, DuplicatesRemoved: 2, FilteredOut: 3, Analyzed: 4, Errors: 1})
	m.RecordRun("completed", types.RunSummary{Collected: 1, Analyzed: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("completed")))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeCollected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeDuplicate)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeFiltered)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeAnalyzed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Articles.WithLabelValues(OutcomeError)))
}

func TestSearchErrorsAndStages(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordSearchError()
	m.RecordSearchError()
	m.ObserveStage("analyze", 150*time.Millisecond)
	m.RecordKeywords(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchErrors))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Keywords))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSearchError()
		m.ObserveStage("gate", time.Second)
		m.RecordKeywords(5)
		m.RecordRun("completed", types.RunSummary{})
	})
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
