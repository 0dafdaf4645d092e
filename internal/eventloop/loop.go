// Package eventloop runs callbacks one at a time on a single goroutine.
//
// Every component that touches rendering state posts its work here, which
// keeps the coordinator, the debouncer and the renderer single-threaded.
package eventloop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Run when the loop was stopped with Stop.
var ErrStopped = errors.New("eventloop: stopped")

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("eventloop: already running")

// PanicHandler receives values recovered from panicking callbacks.
// When no handler is set, panics propagate and end Run.
type PanicHandler func(recovered any)

// Loop is a FIFO queue of functions drained by Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stop    chan struct{}
	stopped bool
	running bool

	onPanic PanicHandler
}

// Option configures a Loop.
type Option func(*Loop)

// WithPanicHandler recovers panics from callbacks and reports them to h.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		l.onPanic = h
	}
}

// New creates a loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn. It is safe to call from any goroutine, including from a
// callback running on the loop. Posts after Stop are dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return ErrStopped
		case <-l.wake:
		}
	}
}

// RunPending runs the functions queued so far on the calling goroutine and
// returns how many ran. Functions posted meanwhile wait for the next call.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range queue {
		l.invoke(fn)
	}
	return len(queue)
}

func (l *Loop) invoke(fn func()) {
	if l.onPanic != nil {
		defer func() {
			if r := recover(); r != nil {
				l.onPanic(r)
			}
		}()
	}
	fn()
}

// Len returns the number of queued functions.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stop ends Run and drops queued functions. Safe to call repeatedly.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.stopped = true
	l.queue = nil
	close(l.stop)
}
