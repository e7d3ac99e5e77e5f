package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrAlreadyExists is returned by conditional creates when the key is taken.
	ErrAlreadyExists = errors.New("item already exists")
	// ErrVersionConflict is returned by guarded updates when the stored version moved on.
	ErrVersionConflict = errors.New("version conflict")
	// ErrReferenceNotFound is returned by reference lookups for unknown provider ids.
	ErrReferenceNotFound = errors.New("reference entity not found")
	// ErrReferenceNotLoaded is returned while a reference family has never been synchronized.
	ErrReferenceNotLoaded = errors.New("reference data not loaded")
)

// ValidationError marks a malformed or referentially invalid request. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// ProviderTransientError is a network error, timeout, 5xx or rate limit answer from the
// provider. The provider client retries these with backoff.
type ProviderTransientError struct {
	Op         string
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderTransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: transient status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: transient: %v", e.Op, e.Err)
}

func (e *ProviderTransientError) Unwrap() error { return e.Err }

// ProviderError is a non retryable provider rejection, or a transient failure that
// exhausted its retries.
type ProviderError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Attempts   int
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider %s failed", e.Op)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " attempts=%d", e.Attempts)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsTimeout reports whether the provider call ran out of time.
func (e *ProviderError) IsTimeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// PersistenceError wraps a storage failure. Consumers return it so the transport requeues.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ReconciliationDriftError is a business key mismatch that cannot be corrected safely,
// e.g. two bookings claiming the same policy number. It is flagged for manual review.
type ReconciliationDriftError struct {
	PolicyNumber      string
	CertificateNumber string
	BookingIDs        []string
	Reason            string
}

func (e *ReconciliationDriftError) Error() string {
	return fmt.Sprintf("reconciliation drift policy=%s certificate=%s: %s", e.PolicyNumber, e.CertificateNumber, e.Reason)
}

// FailureReasonFor maps a provider failure to the outcome reason published to callers.
func FailureReasonFor(err error) FailureReason {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.IsTimeout() {
		return FailureProviderTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureProviderTimeout
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return FailureValidation
	}
	return FailureProvider
}
