package core

import "errors"

// Error codes surfaced to clients over the wire.
const (
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeBadRequest             = "bad_request"
	ErrCodeValidationFailed       = "validation_failed"
	ErrCodePersistenceUnavailable = "persistence_unavailable"
	ErrCodeDuplicateConnection    = "duplicate_connection"
	ErrCodeRateLimited            = "rate_limited"
)

// ErrDuplicateConnection signals a registry invariant violation: the
// transport handed us a connection id that is already registered.
var ErrDuplicateConnection = errors.New("duplicate connection")

// CoreError wraps a code and human-readable message, optionally with
// per-field detail for validation failures.
type CoreError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// ValidationError is returned by the comment processor when a submission
// is malformed. Fields maps field names to human-readable problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
