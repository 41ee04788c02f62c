package scheduling

import (
	"fmt"
	"strings"
)

// ValidationError rejects malformed input before anything touches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ScheduleValidationError carries every violated day of a rejected schedule
// update, so a client can show all problems at once.
type ScheduleValidationError struct {
	Violations []string
}

func (e *ScheduleValidationError) Error() string {
	return fmt.Sprintf("invalid schedule: %s", strings.Join(e.Violations, "; "))
}
