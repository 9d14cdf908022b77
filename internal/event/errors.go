package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the notifier.
var (
	// ErrListenerPanic is wrapped by ListenerError when a listener panics.
	ErrListenerPanic = errors.New("listener panicked")
)

// ListenerError wraps a failure from a single listener.
type ListenerError struct {
	// Event is the event being delivered.
	Event string

	// ID identifies the failing listener.
	ID ID

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s for %q: %v", e.ID, e.Event, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
