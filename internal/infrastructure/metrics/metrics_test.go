package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementOutcome("completed", "APPROVED")
	m.IncrementOutcome("completed", "APPROVED")
	m.IncrementExtraction("bank_statement", true)
	m.IncrementExtraction("resume", false)
	m.IncrementSnapshotFailure()
	m.RunStarted()
	m.ObserveStage("eligibility", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunOutcome.WithLabelValues("completed", "APPROVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionResult.WithLabelValues("resume", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsInFlight))

	m.RunFinished(time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RunsInFlight))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageLatency))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementOutcome("failed", "ERROR")
		m.IncrementExtraction("generic", true)
		m.IncrementSnapshotFailure()
		m.ObserveStage("validation", time.Millisecond)
		m.RunStarted()
		m.RunFinished(time.Millisecond)
	})
}
