package extraction

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

var creditScorePattern = regexp.MustCompile(`(?i)(?:score|rating)[:\s]*(\d{3})`)

func parseCreditReport(text string) *entity.ExtractedFields {
	fields := &entity.ExtractedFields{
		DocumentType: entity.DocumentCreditReport,
		Summary:      "Credit score: not found",
		RawText:      text,
	}

	if m := creditScorePattern.FindStringSubmatch(text); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			fields.CreditScore = entity.Ptr(score)
			fields.Summary = fmt.Sprintf("Credit score: %d", score)
		}
	}
	return fields
}

func parseGeneric(text string) *entity.ExtractedFields {
	return &entity.ExtractedFields{
		DocumentType: entity.DocumentGeneric,
		Summary:      "Generic text extraction completed",
		RawText:      text,
	}
}
