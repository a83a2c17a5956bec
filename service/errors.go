package service

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrFailedValidation   = errors.New("failed validation")
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotPermitted       = errors.New("not permitted")
)

// ValidationError carries per-field validation messages across the service
// boundary. It unwraps to ErrFailedValidation so callers can detect it with
// errors.Is and extract the field map with errors.As.
type ValidationError struct {
	Fields map[string]string
}

// Error returns the field messages in a stable order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := ""
	for _, k := range keys {
		if msg != "" {
			msg += "; "
		}
		msg += fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrFailedValidation) hold for ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrFailedValidation
}

// failedValidation wraps a validation error map in a ValidationError.
func failedValidation(errorMap map[string]string) error {
	return &ValidationError{Fields: errorMap}
}
