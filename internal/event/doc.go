// Package event provides the editor's Notifier.
//
// A Notifier maps an event name to an ordered list of listeners. Trigger
// delivers synchronously, in registration order, on the caller's
// goroutine. A listener that returns an error or panics does not stop
// delivery to the listeners after it; failures are logged and returned
// together once every listener has run.
//
// Standard event names:
//
//	content-changed   editor content changed (one per transaction)
//	deactivated       the editable region lost focus
//
// Plugins may trigger and listen to names of their own.
package event
