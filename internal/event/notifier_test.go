package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerDeliversInRegistrationOrder(t *testing.T) {
	n := NewNotifier()
	var order []int
	for i := range 3 {
		n.On(ContentChanged, func(...any) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, n.Trigger(ContentChanged))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTriggerPassesArguments(t *testing.T) {
	n := NewNotifier()
	var got []any
	n.On("custom", func(args ...any) error {
		got = args
		return nil
	})

	require.NoError(t, n.Trigger("custom", "a", 2))
	assert.Equal(t, []any{"a", 2}, got)
}

func TestTriggerUnknownEvent(t *testing.T) {
	assert.NoError(t, NewNotifier().Trigger("nobody-listens"))
}

func TestFailingListenersAreIsolated(t *testing.T) {
	n := NewNotifier()
	boom := errors.New("boom")
	reached := 0

	failing := n.On(ContentChanged, func(...any) error { return boom })
	n.On(ContentChanged, func(...any) error { panic("listener bug") })
	n.On(ContentChanged, func(...any) error {
		reached++
		return nil
	})

	err := n.Trigger(ContentChanged)
	require.Error(t, err)
	assert.Equal(t, 1, reached)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrListenerPanic)

	var lerr *ListenerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, failing, lerr.ID)
	assert.Equal(t, ContentChanged, lerr.Event)
}

func TestOff(t *testing.T) {
	n := NewNotifier()
	calls := 0
	id := n.On(Deactivated, func(...any) error {
		calls++
		return nil
	})
	require.NotEmpty(t, id)
	assert.Equal(t, 1, n.Count(Deactivated))

	assert.True(t, n.Off(Deactivated, id))
	assert.False(t, n.Off(Deactivated, id))
	assert.Equal(t, 0, n.Count(Deactivated))

	require.NoError(t, n.Trigger(Deactivated))
	assert.Zero(t, calls)
}

func TestOffDuringDelivery(t *testing.T) {
	n := NewNotifier()
	calls := 0
	var second ID
	n.On(ContentChanged, func(...any) error {
		n.Off(ContentChanged, second)
		return nil
	})
	second = n.On(ContentChanged, func(...any) error {
		calls++
		return nil
	})

	require.NoError(t, n.Trigger(ContentChanged))
	assert.Equal(t, 1, calls, "delivery uses the listeners registered when Trigger started")

	require.NoError(t, n.Trigger(ContentChanged))
	assert.Equal(t, 1, calls)
}

func TestNilListenerIgnored(t *testing.T) {
	n := NewNotifier()
	assert.Empty(t, n.On(ContentChanged, nil))
	assert.Equal(t, 0, n.Count(ContentChanged))
}

func TestNamesAndClear(t *testing.T) {
	n := NewNotifier()
	n.On("b", func(...any) error { return nil })
	n.On("a", func(...any) error { return nil })
	assert.Equal(t, []string{"a", "b"}, n.Names())

	n.Clear()
	assert.Empty(t, n.Names())
}
