package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEvent EventType = "test.event"

func TestBus_Publish(t *testing.T) {
	t.Run("should deliver the event to every subscriber", func(t *testing.T) {
		// given
		bus := NewBus()
		received := 0
		bus.Subscribe(testEvent, func(e Event) error {
			received++
			return nil
		})
		bus.Subscribe(testEvent, func(e Event) error {
			received++
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), testEvent, "payload"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, received)
	})

	t.Run("should not deliver events of other types", func(t *testing.T) {
		// given
		bus := NewBus()
		received := 0
		bus.Subscribe(testEvent, func(e Event) error {
			received++
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), EventType("other.event"), nil))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, received)
	})

	t.Run("should keep delivering after a handler error and report it", func(t *testing.T) {
		// given
		bus := NewBus()
		received := 0
		bus.Subscribe(testEvent, func(e Event) error {
			return errors.New("handler failed")
		})
		bus.Subscribe(testEvent, func(e Event) error {
			received++
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), testEvent, nil))

		// then
		assert.Error(t, err)
		assert.Equal(t, 1, received)
	})

	t.Run("should recover a panicking handler", func(t *testing.T) {
		// given
		bus := NewBus()
		bus.Subscribe(testEvent, func(e Event) error {
			panic("boom")
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), testEvent, nil))

		// then
		assert.Error(t, err)
	})

	t.Run("should refuse to publish on a cancelled context", func(t *testing.T) {
		// given
		bus := NewBus()
		received := 0
		bus.Subscribe(testEvent, func(e Event) error {
			received++
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := bus.Publish(NewEvent(ctx, testEvent, nil))

		// then
		assert.Error(t, err)
		assert.Equal(t, 0, received)
	})
}

func TestBus_Subscribe(t *testing.T) {
	t.Run("should stop delivering after unsubscribe", func(t *testing.T) {
		// given
		bus := NewBus()
		received := 0
		unsubscribe := bus.Subscribe(testEvent, func(e Event) error {
			received++
			return nil
		})
		require.NoError(t, bus.Publish(NewEvent(context.Background(), testEvent, nil)))

		// when
		unsubscribe()
		err := bus.Publish(NewEvent(context.Background(), testEvent, nil))

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, received)
	})
}

func TestSubscribeTyped(t *testing.T) {
	t.Run("should deliver a matching payload type", func(t *testing.T) {
		// given
		bus := NewBus()
		var got TransactionChanged
		SubscribeTyped(bus, TransactionChangedEvent, func(e EventT[TransactionChanged]) error {
			got = e.Data
			return nil
		})
		payload := TransactionChanged{UserID: "user-1", CategoryIDs: []string{"cat-1", "cat-2"}}

		// when
		err := bus.Publish(NewEvent(context.Background(), TransactionChangedEvent, payload))

		// then
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("should skip payloads of a different type without failing", func(t *testing.T) {
		// given
		bus := NewBus()
		called := false
		SubscribeTyped(bus, TransactionChangedEvent, func(e EventT[TransactionChanged]) error {
			called = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), TransactionChangedEvent, "not a struct"))

		// then
		require.NoError(t, err)
		assert.False(t, called)
	})
}
