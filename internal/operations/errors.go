package operations

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType classifies a run error.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeNotFound     ErrorType = "not_found"
)

// RunError is the error type produced by run and step execution.
type RunError struct {
	Type      ErrorType      `json:"type"`
	Step      string         `json:"step,omitempty"`
	Message   string         `json:"message"`
	Cause     error          `json:"-"`
	Context   map[string]any `json:"context,omitempty"`
	Retryable bool           `json:"retryable"`
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e == nil {
		return "unknown run error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError reports invalid run input.
func NewValidationError(step, message string) *RunError {
	return &RunError{
		Type:      ErrorTypeValidation,
		Step:      step,
		Message:   message,
		Retryable: false,
	}
}

// NewStepError wraps a failure returned by a step's Run method.
func NewStepError(step string, cause error, retryable bool) *RunError {
	message := "step execution failed"
	if cause != nil {
		message = cause.Error()
	}
	return &RunError{
		Type:      ErrorTypeExecution,
		Step:      step,
		Message:   message,
		Cause:     cause,
		Retryable: retryable,
	}
}

// NewTimeoutError reports a step that exceeded its deadline.
func NewTimeoutError(step string, timeout time.Duration) *RunError {
	return &RunError{
		Type:    ErrorTypeTimeout,
		Step:    step,
		Message: fmt.Sprintf("step exceeded timeout of %s", timeout),
		Context: map[string]any{
			"timeout": timeout.String(),
		},
		Retryable: true,
	}
}

// NewCancellationError reports a run aborted by its context.
func NewCancellationError(step string) *RunError {
	return &RunError{
		Type:      ErrorTypeCancellation,
		Step:      step,
		Message:   "run was cancelled",
		Retryable: false,
	}
}

// IsRetryable reports whether the error may succeed on a retry.
func IsRetryable(err error) bool {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Retryable
	}
	return false
}

// GetErrorType returns the classification of the error, defaulting to
// execution for errors raised outside this package.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Type
	}
	return ErrorTypeExecution
}

// ErrRunNotFound is returned when a run cannot be found in the store.
var ErrRunNotFound = &RunError{
	Type:    ErrorTypeNotFound,
	Message: "run not found",
}
