package events

import (
	"sync"

	"solecare-backend/internal/metrics"
)

// ChangeKind describes what happened to an entity
type ChangeKind string

const (
	ChangeCreated       ChangeKind = "created"
	ChangeUpdated       ChangeKind = "updated"
	ChangeRemoved       ChangeKind = "removed"
	ChangeStatusUpdated ChangeKind = "status_updated"
)

// Change is the unit published to the feed. Views subscribe and reconcile
// their local lists via ApplyChange. Delivery is at-most-once, best-effort;
// a missed event is corrected by the next full fetch.
type Change struct {
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Kind       ChangeKind `json:"kind"`
	Status     string     `json:"status,omitempty"`
}

// Bus fans changes out to subscribers. Slow subscribers drop events rather
// than block publishers.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Change]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Change]struct{})}
}

// Subscribe returns a channel of changes and an unsubscribe function
func (b *Bus) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish delivers a change to all current subscribers
func (b *Bus) Publish(change Change) {
	metrics.ChangeEventsPublished.Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
			// subscriber buffer full, drop
		}
	}
}
