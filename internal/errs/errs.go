// Package errs defines the closed error taxonomy shared by the consolidation pipeline.
// Every failure that crosses a pipeline-stage boundary is one of these kinds.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

// Kind constants cover every failure the pipeline can report.
const (
	// KindInvalidArgument indicates a malformed input, such as a non-positive user id.
	KindInvalidArgument Kind = "invalid_argument"
	// KindNoDataAvailable indicates an aggregate with all ten sources empty.
	KindNoDataAvailable Kind = "no_data_available"
	// KindExternalService indicates a provider or network failure, including timeouts.
	KindExternalService Kind = "external_service"
	// KindMalformedModelOutput indicates model output that cannot be parsed as JSON.
	KindMalformedModelOutput Kind = "malformed_model_output"
	// KindSchemaValidation indicates parsed model output that does not match the profile schema.
	KindSchemaValidation Kind = "schema_validation"
	// KindPersistence indicates a failed commit or rollback at the storage boundary.
	KindPersistence Kind = "persistence"
	// KindUnknownProvider indicates a provider name outside the factory allow-list.
	KindUnknownProvider Kind = "unknown_provider"
	// KindUnknownStrategy indicates a strategy name outside the registry allow-list.
	KindUnknownStrategy Kind = "unknown_strategy"
	// KindUnknown is returned by KindOf for errors that did not originate here.
	KindUnknown Kind = "unknown"
)

// Error is the single error type used across the pipeline.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// InvalidArgument reports a malformed caller input.
func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

// NoDataAvailable reports an aggregate with nothing to consolidate.
func NoDataAvailable(userID int64) *Error {
	return New(KindNoDataAvailable, "no data available to consolidate for user %d", userID)
}

// ExternalService wraps a provider or network failure.
func ExternalService(cause error, format string, args ...any) *Error {
	return Wrap(KindExternalService, cause, format, args...)
}

// MalformedModelOutput reports unparseable model output.
func MalformedModelOutput(cause error, format string, args ...any) *Error {
	return Wrap(KindMalformedModelOutput, cause, format, args...)
}

// SchemaValidation wraps a profile schema mismatch, preserving the validation detail.
func SchemaValidation(cause error, format string, args ...any) *Error {
	return Wrap(KindSchemaValidation, cause, format, args...)
}

// Persistence wraps a storage commit or rollback failure.
func Persistence(cause error, format string, args ...any) *Error {
	return Wrap(KindPersistence, cause, format, args...)
}

// UnknownProvider reports a provider name outside the allow-list.
func UnknownProvider(name string) *Error {
	return New(KindUnknownProvider, "unknown provider %q", name)
}

// UnknownStrategy reports a strategy name outside the registry.
func UnknownStrategy(name string) *Error {
	return New(KindUnknownStrategy, "unknown strategy %q", name)
}

// KindOf returns the taxonomy kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
