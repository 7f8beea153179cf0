package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrConflict       = errors.New("conflict")
	ErrValidation     = errors.New("validation error")
	ErrInvalidQuote   = errors.New("invalid quote request")
	ErrDuplicateClaim = errors.New("application already has a claim")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden operation")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field violation found in one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add records a violation for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when no violation was recorded.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// TransitionError reports a status change the state machine does not allow.
type TransitionError struct {
	Resource string
	From     string
	To       string
	Action   string // set instead of To for non-status operations
}

func (e *TransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: cannot %s %s in status %s", ErrInvalidState, e.Action, e.Resource, e.From)
	}
	if e.From == e.To {
		return fmt.Sprintf("%s: %s is already %s", ErrInvalidState, e.Resource, e.From)
	}
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidState, e.Resource, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidState }

// ValidationFields extracts field violations from err, if any.
func ValidationFields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
