package apperrors

import "fmt"

// ValidationError is a malformed or missing input field. Surfaced as 400 with
// the field name; never escalates to a 500.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthorizationError means the actor lacks the required grant. Always a 403,
// and the message must not reveal whether the resource exists.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func Authorization(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

// ConfigurationError is a programmer error (unknown resource type, unknown
// sort field). It is not recoverable at runtime: loud in development, generic
// 500 in production.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func Configuration(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// AccessError wraps a failure from the backing store.
type AccessError struct {
	Kind    AccessErrorKind
	Message string
	Err     error
}

type AccessErrorKind string

const (
	AccessNotFound    AccessErrorKind = "not_found"
	AccessConflict    AccessErrorKind = "conflict"
	AccessTimeout     AccessErrorKind = "timeout"
	AccessUnavailable AccessErrorKind = "unavailable"
	AccessInternal    AccessErrorKind = "internal"
)

func (e *AccessError) Error() string {
	return fmt.Sprintf("store %s: %s", e.Kind, e.Message)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Transient reports whether a retry could plausibly succeed. Only idempotent
// reads ever retry, and at most once.
func (e *AccessError) Transient() bool {
	return e.Kind == AccessTimeout || e.Kind == AccessUnavailable
}

func Access(kind AccessErrorKind, err error) *AccessError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &AccessError{Kind: kind, Message: msg, Err: err}
}

// Conflict builds a deliberate domain conflict with a user-facing message,
// as opposed to a translated store failure.
func Conflict(message string) *AccessError {
	return &AccessError{Kind: AccessConflict, Message: message}
}
