package transaction

import (
	"errors"
	"fmt"
)

// ErrMarkersLost indicates a formatting stage corrupted selection markers.
var ErrMarkersLost = errors.New("transaction: formatter corrupted selection markers")

// PipelineError reports a formatting failure. The document holds its
// pre-pipeline content when this is returned.
type PipelineError struct {
	Err error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("transaction: formatting failed, content restored: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}
