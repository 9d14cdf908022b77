package command

import "fmt"

// Native forwards to the host's native mutation primitive of the same name.
// Execution runs inside a transaction.
type Native struct {
	env  Env
	name string
}

// NewNative creates a native-backed command.
func NewNative(env Env, name string) *Native {
	return &Native{env: env, name: name}
}

// Name returns the native command name.
func (n *Native) Name() string {
	return n.name
}

// Execute runs the native primitive in a transaction. If the host declines,
// the transaction aborts and ErrNotExecuted is returned.
func (n *Native) Execute(value string) error {
	return n.env.Run(func() error {
		if !n.env.Document().Exec(n.name, value) {
			return fmt.Errorf("%w: %s", ErrNotExecuted, n.name)
		}
		return nil
	})
}

// QueryState implements Command.QueryState.
func (n *Native) QueryState() bool {
	return n.env.Document().QueryState(n.name)
}

// QueryEnabled implements Command.QueryEnabled.
func (n *Native) QueryEnabled() bool {
	return n.env.Document().QueryEnabled(n.name)
}

// NativeFactory returns a factory for a native command under another name.
// It lets a tier alias a command to a different primitive.
func NativeFactory(name string) Factory {
	return func(env Env) Command {
		return NewNative(env, name)
	}
}
