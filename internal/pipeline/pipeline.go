// Package pipeline composes content formatting stages.
//
// A stage maps serialized content to serialized content. Stages run left
// to right in registration order; the output of one is the input of the
// next. An empty pipeline is the identity.
package pipeline

import (
	"fmt"
)

// Stage transforms content. Stages should be pure and total; a stage that
// cannot produce output returns an error.
type Stage func(content string) (string, error)

// Pure adapts a total string function to a Stage.
func Pure(fn func(string) string) Stage {
	return func(content string) (string, error) {
		return fn(content), nil
	}
}

// Error reports which stage failed.
type Error struct {
	// Stage is the failing stage's name.
	Stage string
	// Index is the failing stage's position in the pipeline.
	Index int
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("formatter stage %d (%s): %v", e.Index, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

type namedStage struct {
	name  string
	stage Stage
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []namedStage
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Add appends a stage.
func (p *Pipeline) Add(name string, stage Stage) {
	p.stages = append(p.stages, namedStage{name: name, stage: stage})
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Apply runs every stage over content. A stage that errors or panics
// stops the pipeline with an *Error.
func (p *Pipeline) Apply(content string) (string, error) {
	for i, s := range p.stages {
		out, err := runStage(s.stage, content)
		if err != nil {
			return "", &Error{Stage: s.name, Index: i, Err: err}
		}
		content = out
	}
	return content, nil
}

func runStage(stage Stage, content string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v", r)
		}
	}()
	return stage(content)
}
