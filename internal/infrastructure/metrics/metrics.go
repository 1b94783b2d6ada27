package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for intake runs. A nil *Metrics is a no-op.
type Metrics struct {
	// Stage latency by workflow state
	StageLatency *prometheus.HistogramVec

	// Run outcomes by run status and decision
	RunOutcome *prometheus.CounterVec

	// Per-document extraction results by type and result ("ok", "error")
	ExtractionResult *prometheus.CounterVec

	// Snapshot writes that failed and were skipped
	SnapshotFailures prometheus.Counter

	// Runs currently in flight
	RunsInFlight prometheus.Gauge

	// Full run latency
	RunLatency prometheus.Histogram
}

// New registers the intake metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intake_stage_duration_seconds",
			Help:    "Duration of workflow stages by state",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),

		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_run_outcomes_total",
			Help: "Total finished runs by status and decision",
		}, []string{"status", "decision"}),

		ExtractionResult: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_extractions_total",
			Help: "Total document extractions by document type and result",
		}, []string{"doc_type", "result"}),

		SnapshotFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_snapshot_failures_total",
			Help: "Workflow snapshot writes that failed",
		}),

		RunsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "intake_runs_in_flight",
			Help: "Number of runs currently executing",
		}),

		RunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_run_duration_seconds",
			Help:    "Duration of a full intake run",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementOutcome records a finished run
func (m *Metrics) IncrementOutcome(status, decision string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(status, decision).Inc()
	}
}

// IncrementExtraction records one document extraction
func (m *Metrics) IncrementExtraction(docType string, ok bool) {
	if m != nil {
		result := "ok"
		if !ok {
			result = "error"
		}
		m.ExtractionResult.WithLabelValues(docType, result).Inc()
	}
}

// IncrementSnapshotFailure records a skipped snapshot write
func (m *Metrics) IncrementSnapshotFailure() {
	if m != nil {
		m.SnapshotFailures.Inc()
	}
}

// RunStarted marks a run in flight
func (m *Metrics) RunStarted() {
	if m != nil {
		m.RunsInFlight.Inc()
	}
}

// RunFinished records the run's duration and clears it from in-flight
func (m *Metrics) RunFinished(d time.Duration) {
	if m != nil {
		m.RunsInFlight.Dec()
		m.RunLatency.Observe(d.Seconds())
	}
}
