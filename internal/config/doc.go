// Package config provides the editor's configuration surface.
//
// Options are decoded from a map, usually read from a TOML or YAML file:
//
//	allowBlockElements = false
//	debug = true
//	maxHistory = 200
//	logLevel = "debug"
//
// Keys that are neither built-in options nor in the caller's recognised
// extension set are rejected with an *Error. Configuration errors are fatal
// to editor construction.
//
// # Options
//
//   - allowBlockElements (default true): when false the editor works in
//     inline mode; block-level commands are disabled and Enter inserts a
//     line break.
//   - debug (default false): enables internal consistency assertions.
//   - maxHistory (default 0): maximum undo entries, 0 meaning unbounded.
//   - logLevel (default "info"): debug, info, warn or error.
//
// # Environment
//
// FromEnv reads overrides from SCRIBE_* variables, so SCRIBE_MAX_HISTORY=50
// sets maxHistory. Merge layers raw maps, later layers winning.
package config
