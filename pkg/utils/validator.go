package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uaePhoneRegex   = regexp.MustCompile(`^(?:\+971|00971|0)(?:5\d|[2-9])\d{7}$`)
	emiratesIDRegex = regexp.MustCompile(`^784-\d{4}-\d{7}-\d$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidatePhone validates a UAE mobile or landline number. Spaces and
// dashes are ignored.
func ValidatePhone(phone string) error {
	normalized := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if !uaePhoneRegex.MatchString(normalized) {
		return fmt.Errorf("invalid UAE phone number: %s", phone)
	}
	return nil
}

// ValidateEmiratesID validates the 784-YYYY-NNNNNNN-C layout of an Emirates ID
func ValidateEmiratesID(id string) error {
	if !emiratesIDRegex.MatchString(id) {
		return fmt.Errorf("emirates ID must look like 784-YYYY-NNNNNNN-C: %s", id)
	}
	return nil
}

// ValidateContactInfo checks the well-known keys of a contact map. Unknown
// keys are accepted as-is.
func ValidateContactInfo(contact map[string]string) error {
	if v, ok := contact["email"]; ok && v != "" {
		if err := ValidateEmail(v); err != nil {
			return err
		}
	}
	if v, ok := contact["phone"]; ok && v != "" {
		if err := ValidatePhone(v); err != nil {
			return err
		}
	}
	return nil
}
