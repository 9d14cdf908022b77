// Package transaction wraps editor mutations into units that format the
// result and notify listeners once.
//
// A Manager is Idle or Running. Run from Idle executes the mutation, passes
// the document through the formatting pipeline, commits (records history)
// and triggers content-changed exactly once. Run while Running, from a
// listener, a pipeline stage or a command nested in another command, only
// executes its mutation; the outer run formats and notifies for both.
//
// If the pipeline fails the document is restored to its pre-pipeline
// content and selection, nothing is committed, and Run returns a
// *PipelineError after notifying.
package transaction
