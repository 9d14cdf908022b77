// Package schedule provides the editor's deferred follow-up tasks.
//
// Some work must wait until the host has settled after an event, such as
// recording history only after a focus change has placed the caret. Such
// work is deferred onto a Queue and runs, in the order it was deferred,
// when the host loop calls Flush after the triggering event completes.
package schedule

import (
	"fmt"
	"log/slog"
)

// Task is deferred work.
type Task struct {
	Name string
	Fn   func()
}

// Queue is a FIFO of deferred tasks. It is not safe for concurrent use.
type Queue struct {
	tasks  []Task
	logger *slog.Logger
}

// NewQueue creates an empty queue. A nil logger discards output.
func NewQueue(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Queue{logger: logger.With("component", "schedule")}
}

// Defer appends a task.
func (q *Queue) Defer(name string, fn func()) {
	if fn == nil {
		return
	}
	q.tasks = append(q.tasks, Task{Name: name, Fn: fn})
}

// Pending returns the number of queued tasks.
func (q *Queue) Pending() int {
	return len(q.tasks)
}

// Flush runs the queued tasks in order and returns how many ran. Tasks
// deferred while flushing run on the next Flush. A panicking task is
// logged and does not stop the others.
func (q *Queue) Flush() int {
	tasks := q.tasks
	q.tasks = nil

	for _, t := range tasks {
		q.run(t)
	}
	return len(tasks)
}

func (q *Queue) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("deferred task panicked", "task", t.Name, "panic", fmt.Sprint(r))
		}
	}()
	t.Fn()
}
