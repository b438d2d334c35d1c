// Package engine is the provisioning/teardown orchestrator. It builds
// a dependency graph from the entity catalog, plans a layered
// traversal, and drives idempotent creation and reverse-order deletion
// through the tracker client.
package engine

import (
	"errors"
	"fmt"
)

// ErrorClass classifies an error for retry and recovery logic.
type ErrorClass string

const (
	// ErrorClassTransient is a temporary failure that may succeed on
	// retry: network timeouts, 5xx responses.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassThrottled is rate limiting; retried with a longer
	// backoff than plain transient failures.
	ErrorClassThrottled ErrorClass = "throttled"

	// ErrorClassPermanent is non-recoverable for this entity:
	// validation rejections, missing parents, structural errors.
	ErrorClassPermanent ErrorClass = "permanent"
)

// Error codes. CYCLE and DANGLING_PARENT are pre-flight and abort the
// whole invocation before any mutation; everything else is scoped to a
// single entity and aggregated into the run report.
const (
	CodeCycle            = "CYCLE"
	CodeDanglingParent   = "DANGLING_PARENT"
	CodeUnresolvedParent = "UNRESOLVED_PARENT"
	CodeValidation       = "VALIDATION"
	CodeTransport        = "TRANSPORT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNotFound         = "NOT_FOUND"
	CodePartialTeardown  = "PARTIAL_TEARDOWN"
	CodeInternal         = "INTERNAL"
)

// ProvisionError is a classified error with entity context.
type ProvisionError struct {
	Class   ErrorClass
	Code    string
	Message string

	// Entity is the logical identity string of the affected entity,
	// when the error is entity-scoped.
	Entity string

	Err error
}

// Error implements the error interface.
func (e *ProvisionError) Error() string {
	msg := fmt.Sprintf("[%s/%s] %s", e.Class, e.Code, e.Message)
	if e.Entity != "" {
		msg += " (entity=" + e.Entity + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ProvisionError) Unwrap() error { return e.Err }

// Is matches on class and code so sentinel comparisons work.
func (e *ProvisionError) Is(target error) bool {
	t, ok := target.(*ProvisionError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// WithEntity attaches the affected entity's logical identity.
func (e *ProvisionError) WithEntity(identity string) *ProvisionError {
	e.Entity = identity
	return e
}

// NewCycleError reports a parent chain that revisits a node. Fatal,
// detected before any mutation.
func NewCycleError(path string) *ProvisionError {
	return &ProvisionError{
		Class:   ErrorClassPermanent,
		Code:    CodeCycle,
		Message: "circular parent reference: " + path,
	}
}

// NewDanglingParentError reports a parent reference that is neither in
// the catalog nor flagged pre-existing. Fatal, pre-flight.
func NewDanglingParentError(child, parent string) *ProvisionError {
	return &ProvisionError{
		Class:   ErrorClassPermanent,
		Code:    CodeDanglingParent,
		Message: fmt.Sprintf("entity %s references unknown parent %s", child, parent),
	}
}

// NewUnresolvedParentError marks a single entity whose parent could not
// be resolved at execution time; the entity is skipped, the run goes on.
func NewUnresolvedParentError(parent string) *ProvisionError {
	return &ProvisionError{
		Class:   ErrorClassPermanent,
		Code:    CodeUnresolvedParent,
		Message: "parent not resolvable: " + parent,
	}
}

// NewValidationError marks an entity rejected by the target system.
// Not retried.
func NewValidationError(message string, err error) *ProvisionError {
	return &ProvisionError{Class: ErrorClassPermanent, Code: CodeValidation, Message: message, Err: err}
}

// NewTransportError marks a network or server failure; retryable.
func NewTransportError(message string, err error) *ProvisionError {
	return &ProvisionError{Class: ErrorClassTransient, Code: CodeTransport, Message: message, Err: err}
}

// NewRateLimitError marks a rate-limit response; retryable with a
// longer backoff.
func NewRateLimitError(message string, err error) *ProvisionError {
	return &ProvisionError{Class: ErrorClassThrottled, Code: CodeRateLimited, Message: message, Err: err}
}

// NewNotFoundError marks a lookup target that does not exist. Lookup
// paths usually translate this into a nil result instead of failing.
func NewNotFoundError(message string) *ProvisionError {
	return &ProvisionError{Class: ErrorClassPermanent, Code: CodeNotFound, Message: message}
}

// NewPartialTeardownError marks a parent left in place because one of
// its children could not be deleted.
func NewPartialTeardownError(parent string, err error) *ProvisionError {
	return &ProvisionError{
		Class:   ErrorClassPermanent,
		Code:    CodePartialTeardown,
		Message: "children still present, parent not deleted",
		Entity:  parent,
		Err:     err,
	}
}

// IsRetryable reports whether the entity operation may be attempted
// again. Only transient and throttled failures qualify.
func IsRetryable(err error) bool {
	var e *ProvisionError
	if errors.As(err, &e) {
		return e.Class == ErrorClassTransient || e.Class == ErrorClassThrottled
	}
	return false
}

// IsThrottled reports whether the error came from rate limiting.
func IsThrottled(err error) bool {
	var e *ProvisionError
	if errors.As(err, &e) {
		return e.Class == ErrorClassThrottled
	}
	return false
}

// IsNotFound reports whether the error is a missing-target lookup.
func IsNotFound(err error) bool {
	return ErrCode(err) == CodeNotFound
}

// ErrCode extracts the ProvisionError code, or INTERNAL for foreign
// errors.
func ErrCode(err error) string {
	var e *ProvisionError
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
