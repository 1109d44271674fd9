package tool

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig indicates a plugin declared invalid configuration.
var ErrInvalidConfig = errors.New("tool: invalid configuration")

// Code classifies an invocation failure.
type Code int

const (
	// CodeNotFound means the tool is not registered.
	CodeNotFound Code = iota
	// CodeDisabled means the tool is registered but disabled.
	CodeDisabled
	// CodeBusy means admission control rejected the call. Retryable.
	CodeBusy
	// CodeUnavailable means the circuit breaker is open. Retryable after cooldown.
	CodeUnavailable
	// CodeValidationFailed means the parameters were rejected.
	CodeValidationFailed
	// CodeTimeout means the plugin exceeded its execution budget. Retryable.
	CodeTimeout
	// CodeExecutionFailed means the plugin returned an error or panicked.
	CodeExecutionFailed
)

// String returns the string representation of the code.
func (c Code) String() string {
	switch c {
	case CodeNotFound:
		return "not_found"
	case CodeDisabled:
		return "disabled"
	case CodeBusy:
		return "busy"
	case CodeUnavailable:
		return "unavailable"
	case CodeValidationFailed:
		return "validation_failed"
	case CodeTimeout:
		return "timeout"
	case CodeExecutionFailed:
		return "execution_failed"
	default:
		return "unknown"
	}
}

// Retryable reports whether callers may usefully retry this failure class.
func (c Code) Retryable() bool {
	switch c {
	case CodeBusy, CodeUnavailable, CodeTimeout:
		return true
	default:
		return false
	}
}

// Error is the structured failure returned to callers. No internal exception
// crosses the component boundary; every stage maps its outcome into one of
// these.
type Error struct {
	// Code classifies the failure.
	Code Code

	// Message is a human-readable description.
	Message string

	// RetryAfter hints when a retry may succeed. Zero when not applicable.
	RetryAfter time.Duration

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("tool: %s: %s (retry after %s)", e.Code, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("tool: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error with the given code and message.
func NewError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// WrapError builds an Error wrapping an underlying cause.
func WrapError(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// AsError extracts a *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
