package command

import "errors"

// Command errors.
var (
	// ErrNotExecuted indicates the host declined to perform a native command.
	ErrNotExecuted = errors.New("command: host did not execute command")

	// ErrDisabled indicates a command was executed while disabled.
	ErrDisabled = errors.New("command: command is disabled")
)
