// Package lifecycle provides scoped acquisition of releasable resources.
//
// Components register every subscription or helper they acquire in a Store
// and release them all with a single Dispose call. Dispose is idempotent and
// releases resources in reverse acquisition order.
package lifecycle

import "sync"

// Disposable is a resource that can be released.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to the Disposable interface.
type DisposableFunc func()

// Dispose calls f.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Once wraps a release function so that only the first Dispose runs it.
func Once(fn func()) Disposable {
	var once sync.Once
	return DisposableFunc(func() {
		once.Do(fn)
	})
}

// Store groups disposables under one teardown call.
type Store struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add registers d and returns it for chaining.
// Adding to a disposed store releases d immediately.
func (s *Store) Add(d Disposable) Disposable {
	if d == nil {
		return nil
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		d.Dispose()
		return d
	}
	s.items = append(s.items, d)
	s.mu.Unlock()

	return d
}

// AddFunc registers a release function.
func (s *Store) AddFunc(fn func()) Disposable {
	return s.Add(DisposableFunc(fn))
}

// Len returns the number of resources still held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsDisposed returns true once Dispose has been called.
func (s *Store) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Dispose releases every registered resource in reverse order.
// Subsequent calls are no-ops.
func (s *Store) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	items := s.items
	s.items = nil
	s.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}
