package dispatcher

import (
	"context"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/event"
)

// Handler processes run events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name      string
	EventType event.Type
	// Wildcard handlers receive every event type
	Wildcard bool
	Handler  Handler
}
