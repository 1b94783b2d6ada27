package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

type fakeEngine struct {
	mu    sync.Mutex
	seen  []string
	done  chan string
	block chan struct{}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{done: make(chan string, 16)}
}

func (f *fakeEngine) ProcessApplication(ctx context.Context, applicantID string, profile entity.ApplicantProfile, docs []entity.DocumentRef) (*entity.FinalDecision, []entity.RunError) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
	f.mu.Lock()
	f.seen = append(f.seen, applicantID)
	f.mu.Unlock()
	defer func() { f.done <- applicantID }()

	if applicantID == "down" {
		return entity.FailedDecision(applicantID, profile.Name, "Record store unreachable: boom"), nil
	}
	return &entity.FinalDecision{ApplicantID: applicantID, Status: entity.RunStatusCompleted, Decision: entity.DecisionApproved}, nil
}

func (f *fakeEngine) Cancel(string) bool  { return false }
func (f *fakeEngine) Running(string) bool { return false }
func (f *fakeEngine) Graph() string       { return "" }

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for run")
		return ""
	}
}

func TestIntakeWorker_ProcessesSubmissions(t *testing.T) {
	engine := newFakeEngine()
	w := NewIntakeWorker(IntakeWorkerConfig{QueueSize: 4, Consumers: 1, RunTimeout: time.Second}, engine, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, w.Submit(Submission{ApplicantID: "a-1"}))
	require.NoError(t, w.Submit(Submission{ApplicantID: "down"}))

	assert.Equal(t, "a-1", waitFor(t, engine.done))
	assert.Equal(t, "down", waitFor(t, engine.done))

	// Counters are updated after ProcessApplication returns
	require.Eventually(t, func() bool {
		s := w.Stats()
		return s.Processed == 1 && s.Failed == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, w.Stats().LastError, "Record store unreachable")
}

func TestIntakeWorker_RejectsWhenStopped(t *testing.T) {
	w := NewIntakeWorker(IntakeWorkerConfig{}, newFakeEngine(), zap.NewNop())

	err := w.Submit(Submission{ApplicantID: "a-1"})
	assert.True(t, errors.Is(err, ErrNotRunning))
}

func TestIntakeWorker_QueueFull(t *testing.T) {
	engine := newFakeEngine()
	engine.block = make(chan struct{})
	w := NewIntakeWorker(IntakeWorkerConfig{QueueSize: 1, Consumers: 1, RunTimeout: time.Second}, engine, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Submit(Submission{ApplicantID: "a-1"}))
	// Wait until the consumer has taken a-1 so the queue slot is free again
	require.Eventually(t, func() bool { return w.Stats().Queued == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Submit(Submission{ApplicantID: "a-2"}))

	err := w.Submit(Submission{ApplicantID: "a-3"})
	assert.ErrorIs(t, err, ErrQueueFull)

	close(engine.block)
	require.NoError(t, w.Stop())
}

func TestIntakeWorker_DoubleStart(t *testing.T) {
	w := NewIntakeWorker(DefaultIntakeWorkerConfig(), newFakeEngine(), zap.NewNop())
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
	assert.Equal(t, "IntakeWorker", w.Name())
}

type stubWorker struct {
	name    string
	started bool
	stopErr error
}

func (s *stubWorker) Start(ctx context.Context) error { s.started = true; return nil }
func (s *stubWorker) Stop() error                     { return s.stopErr }
func (s *stubWorker) Name() string                    { return s.name }

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(zap.NewNop())
	ok := &stubWorker{name: "ok"}
	bad := &stubWorker{name: "bad", stopErr: errors.New("stuck")}
	m.Register(ok)
	m.Register(bad)

	assert.Equal(t, 2, m.GetWorkerCount())
	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.True(t, ok.started)
	assert.Error(t, m.StartAll(context.Background()))

	err := m.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stop 1 workers")
	assert.False(t, m.IsRunning())
	assert.NoError(t, m.StopAll())
}
