package request

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Field-level validation errors
	ErrMissingRequired = errors.New("required field is missing")
	ErrInvalidEnum     = errors.New("value is not in the allowed set")
	ErrInvalidName     = errors.New("name contains invalid characters")

	// Cross-field validation errors
	ErrInconsistentInput = errors.New("fields are mutually inconsistent")

	// Sizing errors
	ErrInsufficientResources = errors.New("instance bundle is too small for the application type")
)

// ValidationError wraps a field violation with the offending field and value.
type ValidationError struct {
	Field   string // e.g. "database.rdsInstanceName"
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// missingField builds the violation for an absent required field.
func missingField(field string) *ValidationError {
	return NewValidationError(field, "", "is required", ErrMissingRequired)
}

// invalidEnum builds the violation for a value outside its allow-list,
// naming the full allowed set so callers can report it.
func invalidEnum(field, value string, allowed []string) *ValidationError {
	return NewValidationError(field, value,
		fmt.Sprintf("%q is not one of [%s]", value, strings.Join(allowed, ", ")),
		ErrInvalidEnum)
}
