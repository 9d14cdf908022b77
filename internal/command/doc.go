// Package command provides the editor's command abstraction and the tiered
// registry that resolves a command name at call time.
//
// Three tiers can answer for a name, highest first:
//
//	TierPatch    host-specific fixes for broken native behaviour
//	TierPlugin   feature plugins
//	TierDefault  built-in defaults
//
// The precedence is fixed; registration order across tiers never changes
// which command answers. When no tier has the name, Resolve returns a
// Native command that forwards to the host document's native mutation
// primitive of the same name, so an absent plugin never breaks editing.
package command
