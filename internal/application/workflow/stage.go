package workflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// stageResult carries a stage's output across the goroutine boundary
type stageResult[T any] struct {
	value T
	err   error
}

// runStage calls fn with a deadline and turns panics and timeouts into
// errors. A cancelled parent does not interrupt fn; stages run to completion
// or timeout and cancellation is observed between stages.
func runStage[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	stageCtx := context.WithoutCancel(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(stageCtx, timeout)
		defer cancel()
	}

	done := make(chan stageResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- stageResult[T]{err: &panicError{value: r, stack: debug.Stack()}}
			}
		}()
		v, err := fn(stageCtx)
		done <- stageResult[T]{value: v, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-stageCtx.Done():
		var zero T
		return zero, fmt.Errorf("timed out after %s: %w", timeout, stageCtx.Err())
	}
}

type panicError struct {
	value interface{}
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
