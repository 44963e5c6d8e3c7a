// Package events provides change notification for application state.
package events

import (
	"context"
	"sync"

	"palletbook/pkg/logger"
)

// Kind identifies what happened to an entity.
type Kind string

const (
	KindLedgerSaved    Kind = "ledger_saved"
	KindDayCompleted   Kind = "day_completed"
	KindPriceAdded     Kind = "price_added"
	KindPriceUpdated   Kind = "price_updated"
	KindSnapshotLoaded Kind = "snapshot_loaded"
)

// Event describes one successful mutation.
type Event struct {
	Kind       Kind
	EntityType string
	EntityKey  string
}

// Handler receives events synchronously on the publishing goroutine.
type Handler func(ctx context.Context, e Event)

// Publisher is the side of the bus used by domain services.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type subscription struct {
	key int
	h   Handler
}

// Bus is an in-process publish/subscribe hub.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs []subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := b.next
	b.next++
	b.subs = append(b.subs, subscription{key: key, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.key == key {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every subscriber in subscription order.
// A panicking subscriber is logged and does not affect the others.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		deliver(ctx, s.h, e)
	}
}

func deliver(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "event subscriber panicked",
				"kind", e.Kind,
				"entity_key", e.EntityKey,
				"panic", r,
			)
		}
	}()
	h(ctx, e)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
