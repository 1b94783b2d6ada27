package extraction

import (
	"regexp"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

var emiratesIDPattern = regexp.MustCompile(`784-\d{4}-\d{7}-\d`)

// UnreadableEmiratesID is reported when no id number is found in the document
const UnreadableEmiratesID = "784-XXXX-XXXXXXX-X"

func parseEmiratesID(text string) *entity.ExtractedFields {
	id := emiratesIDPattern.FindString(text)
	found := id != ""
	if !found {
		id = UnreadableEmiratesID
	}

	return &entity.ExtractedFields{
		DocumentType: entity.DocumentEmiratesID,
		Summary:      "Emirates ID information extracted",
		RawText:      text,
		Details: map[string]any{
			"id_number": id,
			"id_found":  found,
		},
	}
}
