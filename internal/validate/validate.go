// Package validate checks admin form fields before any database call.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"backoffice/internal/apperr"
)

// UUID accepts only the canonical 36-character hyphenated form.
func UUID(field, v string) error {
	if len(v) != 36 {
		return apperr.Validation("%s must be a valid id", field)
	}
	if _, err := uuid.Parse(v); err != nil {
		return apperr.Validation("%s must be a valid id", field)
	}
	return nil
}

// Length checks the trimmed rune length of v against [min, max].
func Length(field, v string, min, max int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n < min {
		if min == 1 {
			return apperr.Validation("%s is required", field)
		}
		return apperr.Validation("%s must be at least %d characters", field, min)
	}
	if n > max {
		return apperr.Validation("%s must be at most %d characters", field, max)
	}
	return nil
}

// Reason is the free-text justification attached to moderation actions.
func Reason(v string) error { return Length("reason", v, 3, 500) }

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Limit clamps a row limit into [1, max], using def when n is zero or negative.
func Limit(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}
