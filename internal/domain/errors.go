package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable signals that the search engine cannot be reached.
	ErrUnavailable = errors.New("search engine unavailable")
	// ErrNotFound signals a missing document or index.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a malformed document or request field.
	ErrValidation = errors.New("validation failed")
	// ErrSystemicIngestion signals that a whole bulk submission failed,
	// as opposed to individual items being rejected.
	ErrSystemicIngestion = errors.New("systemic ingestion failure")
)

// PartialFailureError reports a bulk ingestion where some items failed.
// It is a result descriptor, not a fatal condition: success + failed
// always equals the original batch size.
type PartialFailureError struct {
	Succeeded int
	Failed    int
	Reasons   []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial batch failure: %d succeeded, %d failed", e.Succeeded, e.Failed)
}

func (e *PartialFailureError) Unwrap() error { return ErrValidation }

// NewPartialFailure creates a partial failure error with per-item reasons.
func NewPartialFailure(succeeded, failed int, reasons []string) error {
	return &PartialFailureError{Succeeded: succeeded, Failed: failed, Reasons: reasons}
}
