package workflow

import "time"

// Recorder receives run measurements. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveStage(stage string, d time.Duration)
	IncrementOutcome(status, decision string)
	IncrementExtraction(docType string, ok bool)
	IncrementSnapshotFailure()
	RunStarted()
	RunFinished(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) IncrementOutcome(string, string)    {}
func (nopRecorder) IncrementExtraction(string, bool)   {}
func (nopRecorder) IncrementSnapshotFailure()          {}
func (nopRecorder) RunStarted()                        {}
func (nopRecorder) RunFinished(time.Duration)          {}
