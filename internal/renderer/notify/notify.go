// Package notify provides in-process notification streams.
//
// An Emitter delivers values synchronously to its subscribers in the order
// they subscribed. Subscriptions can be cancelled at any time, including from
// inside a listener, and cancelling twice is harmless.
package notify

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Listener receives values fired on an Emitter.
type Listener[T any] func(value T)

// Subscription represents an active listener registration.
type Subscription struct {
	id     string
	active atomic.Bool
	remove func(id string)
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// IsActive returns true until the subscription is cancelled.
func (s *Subscription) IsActive() bool {
	return s.active.Load()
}

// Unsubscribe stops delivery to this subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active.CompareAndSwap(true, false) {
		return
	}
	if s.remove != nil {
		s.remove(s.id)
	}
}

// Dispose is an alias for Unsubscribe so subscriptions can be held in a
// lifecycle store.
func (s *Subscription) Dispose() {
	s.Unsubscribe()
}

type entry[T any] struct {
	sub      *Subscription
	listener Listener[T]
}

// Emitter is a multi-subscriber notification stream.
type Emitter[T any] struct {
	mu       sync.RWMutex
	entries  []entry[T]
	disposed bool
}

// NewEmitter creates an emitter with no subscribers.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// Subscribe registers a listener. Listeners added while a value is being
// fired do not receive that value.
func (e *Emitter[T]) Subscribe(listener Listener[T]) *Subscription {
	sub := &Subscription{
		id:     uuid.New().String(),
		remove: e.remove,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed || listener == nil {
		return sub
	}

	sub.active.Store(true)
	e.entries = append(e.entries, entry[T]{sub: sub, listener: listener})
	return sub
}

// Fire delivers value to every active subscriber in subscription order.
func (e *Emitter[T]) Fire(value T) {
	e.mu.RLock()
	if e.disposed || len(e.entries) == 0 {
		e.mu.RUnlock()
		return
	}
	snapshot := make([]entry[T], len(e.entries))
	copy(snapshot, e.entries)
	e.mu.RUnlock()

	for _, en := range snapshot {
		if en.sub.IsActive() {
			en.listener(value)
		}
	}
}

// Len returns the number of active subscribers.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Dispose cancels every subscription. Later Fire calls are no-ops.
func (e *Emitter[T]) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	entries := e.entries
	e.entries = nil
	e.mu.Unlock()

	for _, en := range entries {
		en.sub.active.Store(false)
	}
}

func (e *Emitter[T]) remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, en := range e.entries {
		if en.sub.id == id {
			e.entries = append(e.entries[:i:i], e.entries[i+1:]...)
			return
		}
	}
}
