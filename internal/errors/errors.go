// Package errors provides domain-specific error types for acdbot.
//
// These types carry structured context (what was being validated, which
// session kind conflicted, whether a network failure is transient) so
// the registry and shell can decide how to present failures.
package errors

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrNotConfigured = errors.New("notifier is not configured")
	ErrShuttingDown  = errors.New("registry is shutting down")
)

// ── Structured error types ───────────────────────────────────────────

// ValidationError reports a malformed address or port.  It is surfaced
// synchronously by start operations; no session is ever created from
// invalid input.
type ValidationError struct {
	Field   string // "address", "port", "duration", "rate"
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// ConflictError reports that a session of the given kind is already
// active.  Starting a second one is rejected, never queued.
type ConflictError struct {
	Kind string // "traffic generation" or "monitoring"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is already active. Stop the current session first", e.Kind)
}

// NetworkError represents a failure in a network operation.  Transient
// failures are recovered inside session loops; they never terminate a
// run.
type NetworkError struct {
	Op        string // operation: "dial", "write", "probe"
	Addr      string // network address involved
	Err       error  // underlying error
	Transient bool   // whether the session loop should keep going
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// Validation creates a ValidationError.
func Validation(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Conflict creates a ConflictError for the given session kind.
func Conflict(kind string) *ConflictError {
	return &ConflictError{Kind: kind}
}

// Wrap creates a NetworkError, automatically classifying transience
// from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Transient: classifyTransient(err),
	}
}

// ── Classification helpers ───────────────────────────────────────────

// IsTransient reports whether err is a single-attempt failure the
// session loop should absorb (log, penalty pause, continue).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Transient
	}
	return classifyTransient(err)
}

// classifyTransient inspects standard library error types.  Connection
// failures against a probed target (refused, reset, timed out) are the
// expected steady state of this tool, so anything that looks like a
// per-attempt network condition counts as transient.
func classifyTransient(err error) bool {
	if err == nil {
		return false
	}
	if os.IsTimeout(err) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }
