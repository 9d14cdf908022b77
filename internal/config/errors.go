package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownOption indicates an option key the editor does not recognise.
	ErrUnknownOption = errors.New("unrecognized option")

	// ErrInvalidValue indicates a recognised option with an unusable value.
	ErrInvalidValue = errors.New("invalid option value")

	// ErrUnsupportedFormat indicates a configuration file of unknown type.
	ErrUnsupportedFormat = errors.New("unsupported config file format")
)

// Error is a configuration error raised while building editor options.
type Error struct {
	// Keys lists the offending option keys, if known.
	Keys []string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", strings.Join(e.Keys, ", "), e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
