package league

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a player or match id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateName is returned when a player name is already taken.
	ErrDuplicateName = &ValidationError{Field: "name", Message: "a player with this name already exists"}
)

// ValidationError describes malformed input. It is raised before any state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
