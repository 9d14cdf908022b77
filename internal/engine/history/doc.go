// Package history provides the editor's undo manager.
//
// History is a position-addressed stack of serialized content snapshots.
// The entry at Position is the current state; Undo and Redo move the
// position and return the snapshot to restore. Key rules:
//
// # Push gating
//
// A push is rejected when the candidate, with selection markers stripped,
// equals the current entry with markers stripped. Selection changes alone
// never create history.
//
// # Redo truncation
//
// Pushing after one or more undos discards every entry after Position
// before appending:
//
//	h := NewHistory(0)   // unbounded
//	h.Push("<p>a</p>")
//	h.Push("<p>ab</p>")
//	h.Undo()             // "<p>a</p>"
//	h.Push("<p>ac</p>")  // "<p>ab</p>" is gone
//
// # Capacity
//
// A positive maximum evicts the oldest entries once exceeded. Zero means
// unbounded.
//
// # Grouping
//
// Pushes between BeginGroup and EndGroup coalesce into one entry: the first
// appends, the rest replace it. A batch of edits then undoes in one step.
package history
