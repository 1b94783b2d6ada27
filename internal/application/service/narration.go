package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// DefaultNarrationTimeout bounds a single narration call
const DefaultNarrationTimeout = 20 * time.Second

// FallbackAdvice is used whenever personalized advice cannot be narrated
const FallbackAdvice = "Based on your profile, we've identified several programs that can help improve your economic situation. We encourage you to explore the upskilling and job matching opportunities available to you. Our team is here to support your journey toward financial stability."

// FallbackExplanation returns the fixed sentence for a decision
func FallbackExplanation(decision entity.Decision, score float64) string {
	switch decision {
	case entity.DecisionApproved:
		return fmt.Sprintf("Based on your financial situation and family circumstances, you qualify for social support with an eligibility score of %.1f/100.", score)
	case entity.DecisionUnderReview:
		return fmt.Sprintf("Your application requires additional review. Your eligibility score is %.1f/100, which is borderline. We may need additional documentation.", score)
	default:
		return fmt.Sprintf("Unfortunately, based on the provided information, you do not currently qualify for social support (score: %.1f/100).", score)
	}
}

// narrator wraps an optional port.Narrator with a timeout. The zero value
// narrates nothing and always returns the fallback.
type narrator struct {
	backend port.Narrator
	timeout time.Duration
	logger  Logger
}

func newNarrator(backend port.Narrator, timeout time.Duration, logger Logger) narrator {
	if timeout <= 0 {
		timeout = DefaultNarrationTimeout
	}
	return narrator{backend: backend, timeout: timeout, logger: loggerOrNop(logger)}
}

// narrate returns the narrated text, or an error when the backend is missing,
// fails, returns nothing, or runs past the timeout. A backend that ignores
// its context still cannot hold the caller past the timeout.
func (n narrator) narrate(ctx context.Context, req port.NarrationRequest) (string, error) {
	if n.backend == nil {
		return "", port.ErrNarrationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("narrator panic: %v", r)}
			}
		}()
		text, err := n.backend.Narrate(ctx, req)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", port.ErrNarrationUnavailable
		}
		return text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("narration %s: %w", req.Purpose, ctx.Err())
	}
}

// narrateOr returns narrated text or fallback
func (n narrator) narrateOr(ctx context.Context, req port.NarrationRequest, fallback string) string {
	text, err := n.narrate(ctx, req)
	if err != nil {
		n.logger.Warn("Narration fell back to template", "purpose", string(req.Purpose), "error", err)
		return fallback
	}
	return text
}
