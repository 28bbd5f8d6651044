package domain

import (
	"errors"
	"fmt"
)

const (
	JobStatusPending   = "PENDING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

const (
	// MinPromptLength is the minimum prompt length after trimming whitespace
	MinPromptLength = 1
	// MaxPromptLength is the maximum prompt length after trimming whitespace
	MaxPromptLength = 5000
)

var (
	// ErrJobNotFound is returned when no job exists for the given id
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyFinished is returned when a completion targets a job
	// that has already left the PENDING state
	ErrJobAlreadyFinished = errors.New("job already finished")
)

// ValidationError reports malformed or missing input. Validation happens
// before any storage access, so a ValidationError never leaves partial state.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsTerminal reports whether a status admits no further transitions
func IsTerminal(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}
