// Package plugin defines how capability extensions attach to an editor.
//
// A Plugin never reaches into editor internals. The editor hands it three
// narrow registrars, always in the same order:
//
//  1. RegisterCommands: install command factories at a tier
//  2. RegisterPipelineStages: append HTML or plain-text formatting stages
//  3. RegisterListeners: subscribe to editor events
//
// Func adapts plain functions to the interface. Built-in plugins live in
// the builtin package and Lua plugins in the lua package.
package plugin
