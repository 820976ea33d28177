package scheduler

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the scheduler.
var (
	// ErrRetryExhausted is returned when all inline attempts for a task failed.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled while a
	// task waits between attempts.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrDetectionFailed marks a failed total-page detection. It is non-fatal:
	// the session falls back to a one-page budget.
	ErrDetectionFailed = errors.New("total page detection failed")
)

// ErrorClass represents a classification of page fetch failures.
type ErrorClass string

const (
	// ErrorClassNavigation represents fetch-layer failures from the renderer.
	ErrorClassNavigation ErrorClass = "navigation"

	// ErrorClassTimeout represents per-request or per-task deadline expiry.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassInsufficient represents content below the minimum size.
	ErrorClassInsufficient ErrorClass = "insufficient"

	// ErrorClassBlocked represents content matching a block signature.
	ErrorClassBlocked ErrorClass = "blocked"

	// ErrorClassDetection represents a failed total-page detection.
	ErrorClassDetection ErrorClass = "detection"
)

// FetchError represents a page fetch failure with additional context.
type FetchError struct {
	Page    int
	Class   ErrorClass
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("page %d %s error: %s: %v", e.Page, e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("page %d %s error: %s", e.Page, e.Class, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyFetchErr extracts the error class from a fetch failure.
func classifyFetchErr(err error) ErrorClass {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Class
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorClassTimeout
	}
	return ErrorClassNavigation
}

// classifyNavigation buckets a renderer failure as timeout or navigation.
func classifyNavigation(err error) ErrorClass {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorClassTimeout
	}
	return ErrorClassNavigation
}

// shouldRetry determines if an error class should be retried within a task.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassNavigation:
		// Renderer hiccups are usually transient
		return true
	case ErrorClassTimeout:
		// Timeouts correlate with rate limiting, retry with longer backoff
		return true
	case ErrorClassInsufficient:
		// Thin pages often fill in on a later attempt
		return true
	case ErrorClassBlocked:
		// Block pages may clear once pacing catches up
		return true
	case ErrorClassDetection:
		// Detection failure falls back to a one-page budget instead
		return false
	default:
		return false
	}
}
