package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(_ context.Context, e Event) { got = append(got, "a:"+e.EntityKey) })
	bus.Subscribe(func(_ context.Context, e Event) { got = append(got, "b:"+e.EntityKey) })

	bus.Publish(context.Background(), Event{Kind: KindLedgerSaved, EntityKey: "c1|w1|2026-03-02"})

	assert.Equal(t, []string{"a:c1|w1|2026-03-02", "b:c1|w1|2026-03-02"}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(func(context.Context, Event) { calls++ })

	bus.Publish(context.Background(), Event{Kind: KindPriceAdded})
	unsubscribe()
	unsubscribe()
	bus.Publish(context.Background(), Event{Kind: KindPriceAdded})

	assert.Equal(t, 1, calls)
}

func TestBusSurvivesPanickingSubscriber(t *testing.T) {
	bus := NewBus()
	reached := false

	bus.Subscribe(func(context.Context, Event) { panic("boom") })
	bus.Subscribe(func(context.Context, Event) { reached = true })

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Kind: KindDayCompleted})
	})
	assert.True(t, reached)
}
