// Package monitor delivers surface visibility and pixel-ratio signals.
//
// Signal producers (the backend event translator, suspend handling, option
// reloads) report into a Hub; consumers such as the render coordinator watch
// it through the VisibilitySource and PixelRatioSource interfaces.
package monitor

import (
	"errors"
	"sync"

	"github.com/dshills/gridpaint/internal/renderer/lifecycle"
)

// ErrClosed is returned when watching a closed Hub.
var ErrClosed = errors.New("monitor: hub closed")

// Target identifies a watched surface.
type Target interface {
	Name() string
}

// VisibilityEntry reports how much of a target is visible.
// A Ratio of zero means the target is not visible at all.
type VisibilityEntry struct {
	Target Target
	Ratio  float64
}

// IsVisible returns true when any part of the target is visible.
func (e VisibilityEntry) IsVisible() bool {
	return e.Ratio > 0
}

// VisibilityFunc receives a batch of visibility entries observed together.
type VisibilityFunc func(entries []VisibilityEntry)

// VisibilitySource reports visibility changes for a target.
type VisibilitySource interface {
	WatchVisibility(target Target, fn VisibilityFunc) (lifecycle.Disposable, error)
}

// PixelRatioSource signals that the device pixel ratio or the window size
// may have changed.
type PixelRatioSource interface {
	WatchPixelRatio(fn func()) (lifecycle.Disposable, error)
}

type visibilityWatch struct {
	id     uint64
	target Target
	fn     VisibilityFunc
}

type ratioWatch struct {
	id uint64
	fn func()
}

// Hub is an in-process VisibilitySource and PixelRatioSource.
type Hub struct {
	mu         sync.Mutex
	nextID     uint64
	visibility []visibilityWatch
	ratio      []ratioWatch
	closed     bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// WatchVisibility registers fn for batches reported against target.
func (h *Hub) WatchVisibility(target Target, fn VisibilityFunc) (lifecycle.Disposable, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	h.nextID++
	id := h.nextID
	h.visibility = append(h.visibility, visibilityWatch{id: id, target: target, fn: fn})

	return lifecycle.Once(func() { h.removeVisibility(id) }), nil
}

// WatchPixelRatio registers fn for pixel-ratio signals.
func (h *Hub) WatchPixelRatio(fn func()) (lifecycle.Disposable, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	h.nextID++
	id := h.nextID
	h.ratio = append(h.ratio, ratioWatch{id: id, fn: fn})

	return lifecycle.Once(func() { h.removeRatio(id) }), nil
}

// ReportVisibility delivers one batch with an entry per ratio to every
// watcher of target. Calling it without ratios does nothing.
func (h *Hub) ReportVisibility(target Target, ratios ...float64) {
	if len(ratios) == 0 {
		return
	}

	entries := make([]VisibilityEntry, len(ratios))
	for i, r := range ratios {
		entries[i] = VisibilityEntry{Target: target, Ratio: r}
	}

	h.mu.Lock()
	var fns []VisibilityFunc
	for _, w := range h.visibility {
		if w.target == target {
			fns = append(fns, w.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(entries)
	}
}

// NotifyPixelRatio signals every pixel-ratio watcher.
func (h *Hub) NotifyPixelRatio() {
	h.mu.Lock()
	fns := make([]func(), len(h.ratio))
	for i, w := range h.ratio {
		fns[i] = w.fn
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// WatcherCount returns the number of visibility and pixel-ratio watchers.
func (h *Hub) WatcherCount() (visibility, ratio int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.visibility), len(h.ratio)
}

// Close drops all watchers and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.visibility = nil
	h.ratio = nil
}

func (h *Hub) removeVisibility(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, w := range h.visibility {
		if w.id == id {
			h.visibility = append(h.visibility[:i:i], h.visibility[i+1:]...)
			return
		}
	}
}

func (h *Hub) removeRatio(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, w := range h.ratio {
		if w.id == id {
			h.ratio = append(h.ratio[:i:i], h.ratio[i+1:]...)
			return
		}
	}
}

// NamedTarget is a Target identified by a fixed name.
type NamedTarget string

// Name returns the target name.
func (t NamedTarget) Name() string {
	return string(t)
}
