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

	// ErrUnsupportedType indicates an unknown data type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Authentication Errors.

	// ErrAuthRequired indicates a required API token is missing.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the API token was rejected (401/403).
	ErrAuthInvalid = errors.New("authentication invalid")

	// Transport Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient indicates a retryable server or network failure.
	ErrTransient = errors.New("transient failure")

	// ErrRequestRejected indicates a non-retryable 4xx response.
	ErrRequestRejected = errors.New("request rejected")

	// Sync Errors.

	// ErrMissingField indicates a record lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrDocumentRejected indicates the destination refused a document.
	ErrDocumentRejected = errors.New("document rejected")
)

// ErrorKind buckets failures for the run report.
type ErrorKind string

// Error kinds reported per data type.
const (
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindAuth          ErrorKind = "authentication"
	ErrorKindTransient     ErrorKind = "transient_network"
	ErrorKindRateLimit     ErrorKind = "rate_limit"
	ErrorKindRequest       ErrorKind = "request"
	ErrorKindMapping       ErrorKind = "mapping"
	ErrorKindUpload        ErrorKind = "upload"
)

// ConfigError is a fatal configuration problem detected before any network call.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *ConfigError) Unwrap() error {
	return ErrInvalidInput
}

// NewConfigError creates a ConfigError for a configuration key.
func NewConfigError(key, format string, args ...any) *ConfigError {
	return &ConfigError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// MappingError reports a record that could not be decoded or mapped.
// It is scoped to a single record; the sync continues.
type MappingError struct {
	DataType DataType
	RecordID string
	Err      error
}

func (e *MappingError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("map %s %s: %v", e.DataType, id, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// IsMappingError reports whether err is scoped to a single record.
func IsMappingError(err error) bool {
	var mErr *MappingError
	return errors.As(err, &mErr)
}

// IsConfigError reports whether err is a fatal configuration error.
func IsConfigError(err error) bool {
	var cErr *ConfigError
	return errors.As(err, &cErr)
}

// DocumentFailure records a single document or record that did not make it
// into the destination.
type DocumentFailure struct {
	ID     string
	Kind   ErrorKind
	Reason string
}

// ClassifyError maps an error onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case IsConfigError(err):
		return ErrorKindConfiguration
	case IsMappingError(err), errors.Is(err, ErrMissingField):
		return ErrorKindMapping
	case errors.Is(err, ErrAuthInvalid), errors.Is(err, ErrAuthRequired):
		return ErrorKindAuth
	case errors.Is(err, ErrRateLimited):
		return ErrorKindRateLimit
	case errors.Is(err, ErrDocumentRejected):
		return ErrorKindUpload
	case errors.Is(err, ErrRequestRejected), errors.Is(err, ErrNotFound):
		return ErrorKindRequest
	default:
		return ErrorKindTransient
	}
}
