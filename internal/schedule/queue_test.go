package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlushRunsInOrder(t *testing.T) {
	q := NewQueue(nil)
	var order []string
	q.Defer("a", func() { order = append(order, "a") })
	q.Defer("b", func() { order = append(order, "b") })
	q.Defer("nil", nil)

	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Zero(t, q.Pending())
	assert.Zero(t, q.Flush())
}

func TestTasksDeferredDuringFlushWait(t *testing.T) {
	q := NewQueue(nil)
	ran := false
	q.Defer("outer", func() {
		q.Defer("inner", func() { ran = true })
	})

	assert.Equal(t, 1, q.Flush())
	assert.False(t, ran)
	assert.Equal(t, 1, q.Flush())
	assert.True(t, ran)
}

func TestPanickingTaskIsIsolated(t *testing.T) {
	q := NewQueue(nil)
	ran := false
	q.Defer("bad", func() { panic("oops") })
	q.Defer("good", func() { ran = true })

	assert.NotPanics(t, func() { q.Flush() })
	assert.True(t, ran)
}
