package apperr

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("employee not found")
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUploadFailed       = errors.New("image upload failed")
	ErrRateLimited        = errors.New("too many requests")
	ErrImageRequired      = errors.New("profile picture is required")
)

// FieldError is one itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Invalid builds a single-field validation error.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// BadRequestError is a request that cannot be decoded at all (malformed body,
// broken multipart stream). It is reported as a single message.
type BadRequestError struct {
	Message string
	Err     error
}

func (e *BadRequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BadRequestError) Unwrap() error { return e.Err }

// BadRequest wraps err as a client error with a safe message.
func BadRequest(message string, err error) *BadRequestError {
	return &BadRequestError{Message: message, Err: err}
}
