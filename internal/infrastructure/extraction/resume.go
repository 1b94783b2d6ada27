package extraction

import (
	"context"
	"strings"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"go.uber.org/zap"
)

// parseResume asks the classifier for the employment picture. An unknown
// status leaves EmploymentStatus unset so the declared status can apply.
func (e *Extractor) parseResume(ctx context.Context, text string) *entity.ExtractedFields {
	profile := &port.ResumeProfile{EmploymentStatus: string(entity.EmploymentUnknown)}
	var classifyErr error

	if e.classifier == nil {
		classifyErr = errNoClassifier
	} else if p, err := e.classifier.ClassifyResume(ctx, text); err != nil {
		classifyErr = err
		e.logger.Warn("Resume classification failed", zap.Error(err))
	} else if p != nil {
		profile = p
	}

	status := entity.NormalizeEmploymentStatus(profile.EmploymentStatus)

	var b strings.Builder
	b.WriteString("Resume processed, status: ")
	b.WriteString(string(status))
	if profile.JobTitle != "" {
		b.WriteString(" | Current Job: " + profile.JobTitle)
	}
	if profile.Employer != "" {
		b.WriteString(" at " + profile.Employer)
	}
	if profile.JobPeriod != "" {
		b.WriteString(" (" + profile.JobPeriod + ")")
	}
	if profile.Reasoning != "" {
		b.WriteString(" | Reasoning: " + profile.Reasoning)
	}
	if classifyErr != nil {
		b.WriteString(" | LLM error: " + classifyErr.Error())
	}

	fields := &entity.ExtractedFields{
		DocumentType: entity.DocumentResume,
		Summary:      b.String(),
		RawText:      text,
		Details: map[string]any{
			"employment_status":  string(status),
			"current_job_title":  profile.JobTitle,
			"current_employer":   profile.Employer,
			"current_job_period": profile.JobPeriod,
			"text_length":        len(text),
		},
	}
	if status != entity.EmploymentUnknown {
		fields.EmploymentStatus = entity.Ptr(string(status))
	}
	return fields
}
