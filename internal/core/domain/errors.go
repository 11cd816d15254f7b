package domain

import (
	"errors"
	"fmt"
)

// FaultCategory classifies a failure for retry and reporting decisions.
type FaultCategory string

const (
	// FaultNetwork covers connection-level failures (refused, timeout).
	FaultNetwork FaultCategory = "network"

	// FaultServer covers remote 5xx responses.
	FaultServer FaultCategory = "server"

	// FaultClient covers remote 4xx responses, including auth and validation.
	FaultClient FaultCategory = "client"

	// FaultProtocol covers structurally malformed sync payloads,
	// detected before any record mutation.
	FaultProtocol FaultCategory = "protocol"
)

// FaultError represents a classified failure with a structured error code.
type FaultError struct {
	Category   FaultCategory
	Code       string // Error code (e.g., "HB-NET-0001")
	Message    string // Human-readable message
	Details    string // Optional additional details
	StatusCode int    // Remote HTTP status, 0 for network faults
	Cause      error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *FaultError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *FaultError) Is(target error) bool {
	t, ok := target.(*FaultError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewFaultError creates a new FaultError with the given category, code
// and message.
func NewFaultError(category FaultCategory, code, message string) *FaultError {
	return &FaultError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *FaultError) WithDetails(details string) *FaultError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *FaultError) WithCause(cause error) *FaultError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// WithStatus returns a copy of the error carrying the remote HTTP status.
func (e *FaultError) WithStatus(status int) *FaultError {
	clone := *e
	clone.StatusCode = status
	return &clone
}

// CategoryOf extracts the fault category from an error.
// Returns FaultNetwork for errors that are not FaultErrors, since
// anything unclassified reached us from below the HTTP layer.
func CategoryOf(err error) FaultCategory {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return FaultNetwork
}

// CodeOf extracts the error code from an error if it is a FaultError.
func CodeOf(err error) string {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// FromStatus maps a remote HTTP status code to a FaultError.
// 5xx responses are server faults; everything else in the error range
// is a client fault.
func FromStatus(status int) *FaultError {
	switch status {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 422:
		return ErrValidation
	}
	if status >= 500 {
		return ErrServerFault.WithStatus(status)
	}
	return ErrClientFault.WithStatus(status)
}

// ============================================================================
// Network faults (NET)
// ============================================================================

var (
	// ErrConnectionFailed indicates the outpost could not be reached.
	ErrConnectionFailed = NewFaultError(FaultNetwork, "HB-NET-0001", "connection to outpost failed")

	// ErrRequestTimeout indicates the request exceeded the transport timeout.
	ErrRequestTimeout = NewFaultError(FaultNetwork, "HB-NET-0002", "request timed out")
)

// ============================================================================
// Client faults (CLI): remote 4xx, never retried.
// ============================================================================

var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewFaultError(FaultClient, "HB-CLI-4000", "bad request").WithStatus(400)

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = NewFaultError(FaultClient, "HB-CLI-4010", "authentication required").WithStatus(401)

	// ErrTokenExpired indicates the bearer token has expired.
	ErrTokenExpired = NewFaultError(FaultClient, "HB-CLI-4011", "token expired").WithStatus(401)

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = NewFaultError(FaultClient, "HB-CLI-4030", "permission denied").WithStatus(403)

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = NewFaultError(FaultClient, "HB-CLI-4040", "resource not found").WithStatus(404)

	// ErrRecordConflict indicates the record identity already exists.
	ErrRecordConflict = NewFaultError(FaultClient, "HB-CLI-4090", "record already exists").WithStatus(409)

	// ErrValidation indicates record or request validation failed.
	ErrValidation = NewFaultError(FaultClient, "HB-CLI-4220", "validation failed").WithStatus(422)

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewFaultError(FaultClient, "HB-CLI-4290", "too many requests").WithStatus(429)

	// ErrClientFault is the catch-all for other 4xx responses.
	ErrClientFault = NewFaultError(FaultClient, "HB-CLI-4999", "request rejected by outpost")
)

// ============================================================================
// Server faults (SRV): remote 5xx, retryable.
// ============================================================================

var (
	// ErrServerFault indicates an internal error at the outpost.
	ErrServerFault = NewFaultError(FaultServer, "HB-SRV-5000", "outpost internal error").WithStatus(500)

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewFaultError(FaultServer, "HB-SRV-5001", "storage error").WithStatus(500)
)

// ============================================================================
// Protocol faults (SYN): malformed sync payloads, fail fast.
// ============================================================================

var (
	// ErrMalformedPayload indicates a sync payload missing required fields.
	ErrMalformedPayload = NewFaultError(FaultProtocol, "HB-SYN-0001", "malformed sync payload").WithStatus(422)

	// ErrUnknownStrategy indicates an unrecognized merge strategy.
	ErrUnknownStrategy = NewFaultError(FaultProtocol, "HB-SYN-0002", "unknown merge strategy").WithStatus(422)
)

// PartialSyncError reports an import that failed partway through a
// payload. Mutations applied before the failure are not rolled back;
// Stats records what did complete.
type PartialSyncError struct {
	Stats MergeStatistics
	Cause error
}

// Error implements the error interface.
func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("partial sync: %d added, %d updated, %d skipped before failure: %v",
		e.Stats.Added, e.Stats.Updated, e.Stats.Skipped, e.Cause)
}

// Unwrap returns the underlying error.
func (e *PartialSyncError) Unwrap() error {
	return e.Cause
}

// AsPartialSync extracts a PartialSyncError from an error chain.
func AsPartialSync(err error) (*PartialSyncError, bool) {
	var pe *PartialSyncError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
