package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested entity does not exist or has
// been soft-deleted. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule.
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation would break a uniqueness or
// referential rule (duplicate brand name, brand still in use).
// Handlers map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnsupportedMedia is returned when an uploaded image is outside the
// accepted type or size policy.
var ErrUnsupportedMedia = errors.New("unsupported media")

// FieldError is a single failed rule for one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed rule for a request.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
