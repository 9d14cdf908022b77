package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrBadReturn is returned when a Lua callback returns a value of the
	// wrong type.
	ErrBadReturn = errors.New("lua callback returned an unexpected value")
)

// LoadError reports a script that failed while declaring its plugin.
type LoadError struct {
	Plugin string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("lua plugin %q: %v", e.Plugin, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
