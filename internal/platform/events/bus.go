// Package events provides the in-process change bus that fans
// store-change notifications out to session providers, the websocket
// relay and anything else that needs to know a collection moved.
package events

import (
	"sync"
	"time"
)

// Event types published on the bus.
const (
	TypeChanged = "store.changed"
	TypeReset   = "store.reset"
)

// Event describes one store change. Views lists the portal view paths
// whose caches the change invalidates.
type Event struct {
	Type       string    `json:"type"`
	Collection string    `json:"collection,omitempty"`
	ResourceID string    `json:"resourceId,omitempty"`
	Views      []string  `json:"views"`
	Timestamp  time.Time `json:"timestamp"`
}

// Subscription receives events on C until Close is called. Slow
// consumers lose events rather than blocking publishers.
type Subscription struct {
	C chan Event

	bus         *Bus
	id          int
	collections map[string]bool // empty means all collections
	once        sync.Once
}

// Close detaches the subscription from the bus and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
		close(s.C)
	})
}

func (s *Subscription) wants(e Event) bool {
	// Reset and document-wide events (no single collection) go to
	// everyone; external writers change the file as a whole.
	if len(s.collections) == 0 || e.Type == TypeReset || e.Collection == "" {
		return true
	}
	return s.collections[e.Collection]
}

// Bus is a minimal topic hub: subscribers register interest in
// collections and publishers broadcast without knowing who listens.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*Subscription
	nextID int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*Subscription)}
}

// Subscribe registers interest in the given collections; with no
// arguments the subscription receives every event. Reset events are
// always delivered.
func (b *Bus) Subscribe(collections ...string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		C:           make(chan Event, 16),
		bus:         b,
		id:          b.nextID,
		collections: make(map[string]bool, len(collections)),
	}
	for _, c := range collections {
		sub.collections[c] = true
	}
	b.subs[sub.id] = sub
	b.nextID++
	return sub
}

// Publish delivers e to every matching subscriber. Sends never block;
// a subscriber with a full channel misses the event, which is fine for
// full-reload consumers.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(e) {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
}

// SubscriberCount reports how many subscriptions are active.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
