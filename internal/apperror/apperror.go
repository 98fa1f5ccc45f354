// Package apperror defines the domain error taxonomy for the tracker.
//
// WHY SENTINEL ERRORS?
// Services return these errors (wrapped with context via fmt.Errorf("...: %w")),
// and the HTTP layer maps them to status codes with errors.Is(). This keeps
// the service layer completely free of HTTP knowledge — a service never
// mentions a status code, it only says WHAT went wrong.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")

	// ErrUpstream means the backend database service or a third-party
	// collaborator was unreachable or returned an unexpected failure.
	// Handlers map this to 500.
	ErrUpstream = errors.New("upstream service error")

	// ErrUpstreamRejected means a third-party service explicitly rejected
	// our input (e.g. the identity service says the username doesn't exist).
	// That is the caller's fault, so handlers map this to 400.
	ErrUpstreamRejected = errors.New("upstream rejected input")
)

type AppError struct {
	Err     error  // sentinel, reachable via errors.Is
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Upstream wraps a failure from the backend or another external service.
// The cause stays in the chain for logging; the message is what a client
// may see.
func Upstream(message string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUpstream, cause),
		Message: message,
	}
}

// UpstreamRejected reports an input explicitly refused by a third-party
// service, e.g. an unknown GitHub username.
func UpstreamRejected(field, message string) *AppError {
	return &AppError{
		Err:     ErrUpstreamRejected,
		Message: message,
		Field:   field,
	}
}
