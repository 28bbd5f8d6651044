package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMessage is returned when a queue message cannot be parsed
	ErrInvalidMessage = errors.New("invalid job message")
)

// CallbackError reports a non-2xx response from the completion callback.
// Rejections are final: redelivering the same callback cannot succeed.
type CallbackError struct {
	StatusCode int
	Body       string
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback rejected with status %d: %s", e.StatusCode, e.Body)
}

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
