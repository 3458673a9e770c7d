// Package validation provides input validation utilities and the blocking
// validation error type surfaced to callers.
package validation

// ValidationError is a blocking, user-facing input error. The calculators
// raise it only for the conditions documented on their contracts; all other
// degenerate inputs produce zeroed results instead.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError constructs a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
