package debounce

import (
	"sync"
	"time"
)

// DefaultFrameRate is used when a FrameScheduler is created with a
// non-positive rate.
const DefaultFrameRate = 60

// Poster runs functions on the loop that owns the rendering state.
type Poster interface {
	Post(fn func())
}

// FrameScheduler runs scheduled functions on a Poster once per frame interval.
type FrameScheduler struct {
	poster   Poster
	interval time.Duration
}

// NewFrameScheduler creates a scheduler firing at most frameRate times per second.
func NewFrameScheduler(poster Poster, frameRate int) *FrameScheduler {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &FrameScheduler{
		poster:   poster,
		interval: time.Second / time.Duration(frameRate),
	}
}

// Interval returns the frame interval.
func (s *FrameScheduler) Interval() time.Duration {
	return s.interval
}

// Schedule posts fn to the loop after one frame interval.
func (s *FrameScheduler) Schedule(fn func()) func() {
	var (
		mu        sync.Mutex
		cancelled bool
	)

	timer := time.AfterFunc(s.interval, func() {
		s.poster.Post(func() {
			mu.Lock()
			skip := cancelled
			mu.Unlock()
			if !skip {
				fn()
			}
		})
	})

	return func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		timer.Stop()
	}
}

// ManualScheduler queues scheduled functions until Tick is called.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []*manualTask
	ticks int
}

type manualTask struct {
	fn        func()
	cancelled bool
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn for the next Tick.
func (s *ManualScheduler) Schedule(fn func()) func() {
	task := &manualTask{fn: fn}

	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		task.cancelled = true
		s.mu.Unlock()
	}
}

// Pending returns the number of queued, uncancelled functions.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.queue {
		if !task.cancelled {
			n++
		}
	}
	return n
}

// Ticks returns how many times Tick has run.
func (s *ManualScheduler) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Tick runs every function queued before the call. Functions scheduled while
// the tick runs wait for the next Tick.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.ticks++
	s.mu.Unlock()

	for _, task := range queue {
		s.mu.Lock()
		skip := task.cancelled
		s.mu.Unlock()
		if !skip {
			task.fn()
		}
	}
}
