package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSyncInProgress indicates a sync is already running for the source.
	ErrSyncInProgress = errors.New("sync in progress")

	// Sync Errors.

	// ErrTransport indicates a network or HTTP failure unrelated to throttling.
	ErrTransport = errors.New("transport error")

	// ErrRateLimited indicates the provider explicitly rejected the call
	// because of throttling.
	ErrRateLimited = errors.New("rate limited")

	// ErrParse indicates a single record did not match the provider schema.
	ErrParse = errors.New("parse error")

	// ErrStorage indicates the progress store or catalog sink is unavailable.
	ErrStorage = errors.New("storage unavailable")
)

// ParseError describes a record that could not be normalized.
type ParseError struct {
	SourceID SourceID
	Reason   string
	Err      error
}

// NewParseError builds a ParseError for a source.
func NewParseError(sourceID SourceID, reason string, err error) *ParseError {
	return &ParseError{SourceID: sourceID, Reason: reason, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: parse record: %s: %v", e.SourceID, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: parse record: %s", e.SourceID, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// StorageError wraps a storage failure so it matches ErrStorage.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
