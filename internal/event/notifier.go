package event

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Standard event names.
const (
	ContentChanged = "content-changed"
	Deactivated    = "deactivated"
)

// Listener receives the arguments passed to Trigger.
type Listener func(args ...any) error

// ID identifies a registered listener.
type ID string

type registration struct {
	id ID
	fn Listener
}

// Notifier delivers named events to listeners.
type Notifier struct {
	mu        sync.Mutex
	listeners map[string][]registration
	logger    *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger used to report listener failures.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewNotifier creates a notifier with no listeners.
func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{
		listeners: make(map[string][]registration),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "notifier")
	return n
}

// On appends a listener for name and returns its ID.
// A nil listener is ignored and yields an empty ID.
func (n *Notifier) On(name string, fn Listener) ID {
	if fn == nil {
		return ""
	}

	id := ID(uuid.NewString())

	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners[name] = append(n.listeners[name], registration{id: id, fn: fn})
	return id
}

// Off removes a listener. Returns false if it was not registered for name.
func (n *Notifier) Off(name string, id ID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	regs := n.listeners[name]
	for i, r := range regs {
		if r.id == id {
			// Copy so in-flight deliveries keep their snapshot intact.
			updated := make([]registration, 0, len(regs)-1)
			updated = append(updated, regs[:i]...)
			updated = append(updated, regs[i+1:]...)
			if len(updated) == 0 {
				delete(n.listeners, name)
			} else {
				n.listeners[name] = updated
			}
			return true
		}
	}
	return false
}

// Trigger delivers an event to every listener registered for name at the
// time of the call. It returns the joined listener failures, if any.
func (n *Notifier) Trigger(name string, args ...any) error {
	n.mu.Lock()
	regs := n.listeners[name]
	n.mu.Unlock()

	var errs []error
	for _, r := range regs {
		if err := deliver(r.fn, args); err != nil {
			n.logger.Warn("listener failed", "event", name, "listener", string(r.id), "error", err)
			errs = append(errs, &ListenerError{Event: name, ID: r.id, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of listeners registered for name.
func (n *Notifier) Count(name string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[name])
}

// Names returns the event names that have listeners, sorted.
func (n *Notifier) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	names := make([]string, 0, len(n.listeners))
	for name := range n.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every listener.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = make(map[string][]registration)
}

func deliver(fn Listener, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	return fn(args...)
}
