package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidSession     = errors.New("invalid session")
	ErrForbidden          = errors.New("access forbidden")
	ErrAdminNotFound      = errors.New("administrator not found")
	ErrAdminExists        = errors.New("administrator already exists")
	ErrSetupCompleted     = errors.New("setup already completed")
	ErrNotFound           = errors.New("resource not found")
	ErrRateLimited        = errors.New("too many requests")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a request body fails boundary validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid payload"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for one field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
