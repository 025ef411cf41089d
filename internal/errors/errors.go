package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error taxonomy surfaced by the API-backed components. Callers match with Is.
var (
	// ErrAuthentication means the session token is missing or was rejected by the API.
	ErrAuthentication = errors.New("authentication required")
	// ErrInvalidCredentials is a failed login attempt. It never changes session state.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned for stale ids on update/delete.
	ErrNotFound = errors.New("not found")
	// ErrTransport covers network failures and unexpected responses.
	ErrTransport = errors.New("transport failure")
)

// GeneralField holds messages that are not bound to a specific field.
const GeneralField = "non_field_errors"

// ValidationError carries per-field messages ready for display.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message for a field, or "" when the field is valid.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// TransportError wraps a network failure or an unexpected HTTP status.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %v", ErrTransport.Error(), e.Err)
	}
	return fmt.Sprintf("%s: status %d: %v", ErrTransport.Error(), e.StatusCode, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Fields extracts the per-field messages from err, if it is a validation failure.
func Fields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
