// Package host defines the editable-region capability the editor drives.
//
// The editor never touches a global document. Everything it needs from the
// surrounding environment (reading and writing markup, the current
// selection, native formatting commands) goes through the Document
// interface supplied at construction.
//
// Memory is a self-contained implementation backed by a string. It is used
// by the CLI and by tests, and behaves like a minimal contenteditable
// region: selections are byte offsets into the markup, native commands wrap
// or replace the selected markup, and Type simulates keyboard input.
package host
