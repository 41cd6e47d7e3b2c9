package errors

import (
	// Go Internal Packages
	"fmt"
	"strings"
)

type fieldError struct {
	field   string
	message string
}

// ValidationErrors accumulates per-field violations so that every failed
// rule is reported together rather than one at a time.
type ValidationErrors struct {
	fields []fieldError
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{}
}

func (ve *ValidationErrors) Add(field, message string) {
	ve.fields = append(ve.fields, fieldError{field: field, message: message})
}

func (ve *ValidationErrors) Empty() bool {
	return len(ve.fields) == 0
}

// Err returns nil when no violations were added, otherwise a single error
// listing every violation.
func (ve *ValidationErrors) Err() error {
	if len(ve.fields) == 0 {
		return nil
	}

	parts := make([]string, len(ve.fields))
	for i, fe := range ve.fields {
		parts[i] = fmt.Sprintf("%s: %s", fe.field, fe.message)
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
