package command

import (
	"fmt"

	"github.com/dshills/scribe/internal/host"
)

// Command is a named editing operation. Commands are created per call and
// hold no state between calls.
type Command interface {
	// Execute performs the command. value is the optional argument, such
	// as the URL for createLink.
	Execute(value string) error

	// QueryState reports whether the command is active at the selection.
	QueryState() bool

	// QueryEnabled reports whether the command can run now.
	QueryEnabled() bool
}

// Env is what commands may use from the editor.
type Env interface {
	// Document returns the host editable region.
	Document() host.Document

	// Run executes fn as one transaction.
	Run(fn func() error) error
}

// Factory creates a command bound to an editor.
type Factory func(env Env) Command

// Func is a function adapter for the Command interface.
// A nil State reports false; a nil Enabled reports true.
type Func struct {
	Exec    func(value string) error
	State   func() bool
	Enabled func() bool
}

// Execute implements Command.Execute.
func (f *Func) Execute(value string) error {
	if f.Exec == nil {
		return fmt.Errorf("%w: no execute function", ErrNotExecuted)
	}
	return f.Exec(value)
}

// QueryState implements Command.QueryState.
func (f *Func) QueryState() bool {
	if f.State == nil {
		return false
	}
	return f.State()
}

// QueryEnabled implements Command.QueryEnabled.
func (f *Func) QueryEnabled() bool {
	if f.Enabled == nil {
		return true
	}
	return f.Enabled()
}

// Disabled is a command that never runs. Inline-mode editors register it for
// block-level commands.
type Disabled struct{}

// Execute implements Command.Execute.
func (Disabled) Execute(string) error { return ErrDisabled }

// QueryState implements Command.QueryState.
func (Disabled) QueryState() bool { return false }

// QueryEnabled implements Command.QueryEnabled.
func (Disabled) QueryEnabled() bool { return false }
