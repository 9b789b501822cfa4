package apperrors

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ValidationFailedError carries the complete list of journal/line problems
// found by the validator. It is never retried automatically; the caller fixes
// the input and retries.
type ValidationFailedError struct {
	Problems []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("journal validation failed: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidation
}

// NewValidationFailed builds a ValidationFailedError from the validator's output.
func NewValidationFailed(problems []string) *ValidationFailedError {
	return &ValidationFailedError{Problems: problems}
}

// PostingLockedError signals that a journal or idempotency record could not
// be locked because another request holds it. Retryable after RetryAfter.
type PostingLockedError struct {
	Resource   string // "journal" or "idempotency"
	ResourceID string
	RetryAfter time.Duration
}

func (e *PostingLockedError) Error() string {
	return fmt.Sprintf("%s %s is locked by another operation", e.Resource, e.ResourceID)
}

func (e *PostingLockedError) Unwrap() error {
	return ErrConflict
}

// NewPostingLocked builds a PostingLockedError with a default retry hint.
func NewPostingLocked(resource, resourceID string) *PostingLockedError {
	return &PostingLockedError{Resource: resource, ResourceID: resourceID, RetryAfter: time.Second}
}

// IdempotencyConflictError signals that the same (scope, key) was reused with
// a different request fingerprint. It carries the previously stored response
// so the caller can inspect the earlier outcome. Never retried with the same key.
type IdempotencyConflictError struct {
	Scope          string
	Key            string
	StoredResponse json.RawMessage
}

func (e *IdempotencyConflictError) Error() string {
	return fmt.Sprintf("idempotency key %q reused with a different request in scope %q", e.Key, e.Scope)
}

func (e *IdempotencyConflictError) Unwrap() error {
	return ErrConflict
}

// IllegalTransitionError signals an operation attempted from a state that
// does not permit it. A caller logic error, not transient.
type IllegalTransitionError struct {
	CurrentStatus string
	Operation     string
	Reason        string
}

func (e *IllegalTransitionError) Error() string {
	return e.Reason
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrConflict
}

// NewIllegalTransition builds an IllegalTransitionError.
func NewIllegalTransition(operation, currentStatus, reason string) *IllegalTransitionError {
	return &IllegalTransitionError{Operation: operation, CurrentStatus: currentStatus, Reason: reason}
}
