package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can
// branch with errors.Is.
var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrNotFound            = errors.New("not found")
	ErrUpstream            = errors.New("upstream failure")
	ErrAggregationDegraded = errors.New("aggregation degraded")
)

// ValidationError names the offending input field.
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

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// TransitionError is returned when the requested status is not reachable
// from the current one.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PreconditionError is returned when a legal transition lacks a required input.
type PreconditionError struct {
	From   string
	To     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q: %s", e.From, e.To, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPreconditionFailed }

// UpstreamError wraps a failure of an external dependency.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstream, e.Err} }

func Upstream(service string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Service: service, Err: err}
}

// NotFound wraps ErrNotFound with the missing resource name.
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// HTTPStatus maps an error from the core to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Field returns the input field named by a validation error, if any.
func Field(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
