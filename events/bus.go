// Package events implements the in-process publish/subscribe channel that
// fans order lifecycle events out to connected subscribers. The bus is
// constructed once in main and injected; there is no package-level state.
package events

import (
	"sync"

	"dishdash-api/models"
)

// Topics published by the order lifecycle engine.
const (
	TopicPendingOrders = "pending-orders" // audience: the restaurant's owner
	TopicCookedOrders  = "cooked-orders"  // audience: delivery drivers
	TopicOrderUpdates  = "order-updates"  // audience: customer, driver, owner of the order
)

// Event carries the full order as payload. The order is durably saved
// before it is published.
type Event struct {
	Topic string
	Order *models.Order
}

// FilterFunc is evaluated per delivered event against the subscriber's own
// identity before forwarding. A nil filter admits everything.
type FilterFunc func(Event) bool

type subscriber struct {
	ch     chan Event
	filter FilterFunc
}

// Bus is a topic-scoped publish/subscribe channel. Delivery is
// best-effort: a subscriber that cannot keep up misses events rather than
// blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]*subscriber
}

func New() *Bus {
	return &Bus{
		subs: make(map[string]map[uint64]*subscriber),
	}
}

// Subscribe registers interest in a topic. The returned cancel function
// unregisters the subscription and closes its channel; it is safe to call
// more than once. Only events published while subscribed are observed.
func (b *Bus) Subscribe(topic string, filter FilterFunc) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	sub := &subscriber{
		ch:     make(chan Event, 16),
		filter: filter,
	}

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]*subscriber)
	}
	b.subs[topic][id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[topic]; ok {
				delete(subs, id)
			}
			close(sub.ch)
		})
	}

	return sub.ch, cancel
}

// Publish delivers an event to every current subscriber of the topic whose
// filter admits it. Delivery order across subscribers is unspecified.
func (b *Bus) Publish(topic string, order *models.Order) {
	ev := Event{Topic: topic, Order: order}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[topic] {
		if sub.filter != nil && !sub.filter(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Subscriber buffer full; drop rather than stall the mutation.
		}
	}
}
