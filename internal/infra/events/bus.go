package events

import "sync"

// FanOut distributes change events to subscribers. Handlers for one
// entity run synchronously in publish order, which preserves per-entity
// ordering as long as events enter through a single Publish caller.
//
// Subscriptions are tracked by token, not by handler identity, so two
// observers registered with the same function literal stay independent.
type FanOut struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]subscription
}

type subscription struct {
	filter  *FieldFilter
	handler func(Event)
}

func NewFanOut() *FanOut {
	return &FanOut{subs: make(map[string]map[uint64]subscription)}
}

// Subscribe registers handler for one entity's changes, optionally
// narrowed by filter. The returned function unsubscribes exactly this
// registration; once it returns, no further calls to handler are in
// flight. It must not be called from inside the handler.
func (f *FanOut) Subscribe(entity string, filter *FieldFilter, handler func(Event)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	if f.subs[entity] == nil {
		f.subs[entity] = make(map[uint64]subscription)
	}
	f.subs[entity][id] = subscription{filter: filter, handler: handler}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs[entity], id)
			if len(f.subs[entity]) == 0 {
				delete(f.subs, entity)
			}
		})
	}

	return unsubscribe, nil
}

// Publish delivers ev to every subscriber of its entity. It blocks until
// all handlers return. Delivery holds the registry read lock, which is
// what makes unsubscription synchronous: an unsubscribe waits out any
// delivery already in progress.
func (f *FanOut) Publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.subs[ev.Entity] {
		if !sub.filter.Matches(ev) {
			continue
		}
		sub.handler(ev)
	}
}
