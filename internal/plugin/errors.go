package plugin

import "errors"

// Plugin errors.
var (
	// ErrNilPlugin is returned when a nil plugin is used.
	ErrNilPlugin = errors.New("plugin is nil")

	// ErrAlreadyLoaded is returned when a plugin name is used twice on one editor.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")
)
