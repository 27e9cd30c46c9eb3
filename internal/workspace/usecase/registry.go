package usecase

import (
	"log"
	"sync"

	"worksync-backend/internal/workspace/domain"
)

// subscriberRegistry is the per-engine map of snapshot callbacks. A failure
// in one callback never prevents the others from being notified.
type subscriberRegistry struct {
	mu   sync.Mutex
	subs map[string]func(domain.UnifiedSnapshot)
}

func newSubscriberRegistry() *subscriberRegistry {
	return &subscriberRegistry{
		subs: make(map[string]func(domain.UnifiedSnapshot)),
	}
}

// subscribe registers the callback under id and returns a disposer.
// Replaying the current snapshot to the new subscriber is the caller's job.
func (r *subscriberRegistry) subscribe(id string, callback func(domain.UnifiedSnapshot)) func() {
	r.mu.Lock()
	r.subs[id] = callback
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// notifyAll invokes every registered callback with the snapshot. Callbacks
// run outside the lock so a subscriber may unsubscribe from within one.
func (r *subscriberRegistry) notifyAll(snapshot domain.UnifiedSnapshot) {
	r.mu.Lock()
	callbacks := make(map[string]func(domain.UnifiedSnapshot), len(r.subs))
	for id, cb := range r.subs {
		callbacks[id] = cb
	}
	r.mu.Unlock()

	for id, cb := range callbacks {
		invokeSubscriber(id, cb, snapshot)
	}
}

func (r *subscriberRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// invokeSubscriber calls one callback, absorbing a panic so the remaining
// subscribers still get notified.
func invokeSubscriber(id string, callback func(domain.UnifiedSnapshot), snapshot domain.UnifiedSnapshot) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Sync] subscriber %s panicked during notify: %v", id, rec)
		}
	}()
	callback(snapshot)
}
