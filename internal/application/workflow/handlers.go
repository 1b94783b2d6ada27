package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SarthakGarg19/social-support-ai/internal/application/dispatcher"
	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/event"
)

// NewCacheWriter mirrors every stage snapshot into the run-state cache
func NewCacheWriter(cache port.RunStateCache) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		snapshot, ok := evt.Payload[event.PayloadSnapshot].(*entity.WorkflowSnapshot)
		if !ok || snapshot == nil {
			return nil
		}
		if err := cache.Put(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to cache snapshot for %s: %w", evt.ApplicantID, err)
		}
		return nil
	}
}

// NewEventLogger logs run events at info level
func NewEventLogger(logger *zap.Logger) dispatcher.Handler {
	return func(_ context.Context, evt *event.Event) error {
		fields := []zap.Field{
			zap.String("event", evt.Type.String()),
			zap.String("applicant_id", evt.ApplicantID),
			zap.String("run_id", evt.RunID),
		}
		if stage := evt.GetPayloadString(event.PayloadStage); stage != "" {
			fields = append(fields, zap.String("stage", stage))
		}
		if evt.Type.IsTerminal() {
			fields = append(fields,
				zap.String("decision", evt.GetPayloadString(event.PayloadDecision)),
				zap.Float64("score", evt.GetPayloadFloat(event.PayloadScore)),
				zap.Bool("has_errors", evt.GetPayloadBool(event.PayloadHasErrors)),
			)
		}
		logger.Info("Run event", fields...)
		return nil
	}
}
