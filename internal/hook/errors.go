package hook

import (
	"errors"
	"fmt"
)

// Sentinel errors for hook registration and dispatch.
var (
	// ErrInvalidIdentity is returned when no stable identity can be derived
	// for a handler. Registration is skipped and lookups report no match.
	ErrInvalidIdentity = errors.New("handler has no stable identity")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidArgCount is returned for a negative accepted argument count.
	ErrInvalidArgCount = errors.New("accepted argument count must not be negative")

	// ErrInvalidSnapshot is returned when plain hook data cannot be rebuilt.
	ErrInvalidSnapshot = errors.New("invalid hook snapshot")
)

// HandlerError wraps an error returned by a handler with the dispatch context.
type HandlerError struct {
	// Hook is the name of the hook being invoked.
	Hook string

	// Priority is the priority level the handler was registered at.
	Priority int

	// HandlerID is the identity of the failing handler.
	HandlerID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("hook %q: handler %s at priority %d: %v", e.Hook, e.HandlerID, e.Priority, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
