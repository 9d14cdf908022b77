package engine

import "errors"

// Errors returned by editor operations.
var (
	// ErrNilDocument indicates New was called without a host document.
	ErrNilDocument = errors.New("engine: nil host document")

	// ErrClosed indicates an operation on a closed editor.
	ErrClosed = errors.New("engine: editor is closed")

	// ErrInvariant is the panic value raised by debug assertions.
	ErrInvariant = errors.New("engine: invariant violated")

	// ErrCorruptSnapshot is the panic value raised when a snapshot's markers
	// cannot be decoded.
	ErrCorruptSnapshot = errors.New("engine: corrupt snapshot")
)
