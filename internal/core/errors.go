// internal/core/errors.go
// Error taxonomy for the Orchestrator, per spec.md §7.

package core

import "fmt"

// Sentinel errors for the InvalidInput and StateConflict categories.
// ConstraintUnsatisfiable is not a returned error - an unsatisfiable court is
// simply left empty, observable via session state. InvariantViolation panics
// with a *InvariantViolationError rather than returning one, since it signals
// an internal bug rather than a caller mistake.
var (
	ErrInvalidScore    = fmt.Errorf("invalid score: %w", ErrInvalidInput)
	ErrDuplicatePlayer = fmt.Errorf("player already exists: %w", ErrInvalidInput)
	ErrUnknownPlayer   = fmt.Errorf("unknown player: %w", ErrInvalidInput)
	ErrMatchNotActive  = fmt.Errorf("match is not in-progress: %w", ErrInvalidInput)
	ErrMatchNotFound   = fmt.Errorf("match not found in session: %w", ErrStateConflict)
	ErrPlayerNotActive = fmt.Errorf("player not in active set: %w", ErrStateConflict)
)

// ErrInvalidInput is the base sentinel for caller-supplied bad input.
var ErrInvalidInput = fmt.Errorf("invalid input")

// ErrStateConflict is the base sentinel for requests referencing state that
// does not exist or is not in the expected shape.
var ErrStateConflict = fmt.Errorf("state conflict")

// InvariantViolationError carries full session diagnostic context for a bug
// report. The Orchestrator panics with this rather than returning it.
type InvariantViolationError struct {
	Reason    string
	SessionID string
	Detail    map[string]interface{}
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in session %s: %s (%v)", e.SessionID, e.Reason, e.Detail)
}

func panicInvariant(session *Session, reason string, detail map[string]interface{}) {
	panic(&InvariantViolationError{Reason: reason, SessionID: session.ID, Detail: detail})
}
