// Package errors provides the error vocabulary shared by sleuth's packages.
// It wraps the standard errors package and adds sentinels that the HTTP layer
// maps to status codes before a stream is opened.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure scenarios
var (
	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrToolUnavailable indicates an enumeration tool could not be launched
	ErrToolUnavailable = errors.New("tool unavailable")

	// ErrNotConfigured indicates a collaborator is missing its configuration
	ErrNotConfigured = errors.New("not configured")

	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates a service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrCircuitOpen is returned while a circuit breaker rejects calls
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target type.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error { return errors.Unwrap(err) }

// New creates a new error with the given message.
func New(msg string) error { return errors.New(msg) }

// Errorf is fmt.Errorf.
func Errorf(format string, args ...any) error { return fmt.Errorf(format, args...) }

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error { return errors.Join(errs...) }

// IsTimeout reports whether err is a timeout, including context deadlines.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout) || Is(err, context.DeadlineExceeded)
}

// IsNotFound reports whether the error is a not found error
func IsNotFound(err error) bool { return Is(err, ErrNotFound) }

// IsInvalidInput reports whether the error is an invalid input error
func IsInvalidInput(err error) bool { return Is(err, ErrInvalidInput) }

// IsToolUnavailable reports whether a tool failed to launch.
func IsToolUnavailable(err error) bool { return Is(err, ErrToolUnavailable) }

// IsNotConfigured reports whether a collaborator is not configured.
func IsNotConfigured(err error) bool { return Is(err, ErrNotConfigured) }

// IsRateLimit reports whether the error is a rate limit error
func IsRateLimit(err error) bool { return Is(err, ErrRateLimit) }

// IsUnauthorized reports whether the error is an unauthorized error
func IsUnauthorized(err error) bool { return Is(err, ErrUnauthorized) }

// IsServiceUnavailable reports whether the error is a service unavailable error
func IsServiceUnavailable(err error) bool { return Is(err, ErrServiceUnavailable) }

// IsInvalidResponse reports whether the error is an invalid response error
func IsInvalidResponse(err error) bool { return Is(err, ErrInvalidResponse) }

// StatusCode maps an error to the HTTP status used for responses sent
// before any stream bytes are written.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsInvalidInput(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsUnauthorized(err):
		return http.StatusUnauthorized
	case IsRateLimit(err):
		return http.StatusTooManyRequests
	case IsToolUnavailable(err), IsNotConfigured(err), IsServiceUnavailable(err), Is(err, ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case IsTimeout(err):
		return http.StatusGatewayTimeout
	case IsInvalidResponse(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
