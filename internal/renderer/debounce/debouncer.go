package debounce

import (
	"github.com/dshills/gridpaint/internal/renderer/dirty"
)

// PaintFunc paints the inclusive row range [start, end].
type PaintFunc func(start, end int)

// Scheduler defers a function to the next tick of a cooperative loop.
// The returned cancel function prevents fn from running if it has not run yet.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// Debouncer merges refresh requests made within one tick into a single paint.
// It is not safe for concurrent use; all calls must come from the loop that
// runs the scheduler's callbacks.
type Debouncer struct {
	scheduler Scheduler
	paint     PaintFunc

	pending  dirty.RowRange
	hasRange bool
	rowCount int

	cancel   func()
	disposed bool
}

// New creates a debouncer that calls paint on scheduler ticks.
func New(scheduler Scheduler, paint PaintFunc) *Debouncer {
	return &Debouncer{
		scheduler: scheduler,
		paint:     paint,
	}
}

// Refresh adds [start, end] to the pending range and records rowCount for
// clamping. At most one flush is scheduled per tick.
func (d *Debouncer) Refresh(start, end, rowCount int) {
	if d.disposed {
		return
	}

	d.rowCount = rowCount
	r := dirty.RowRange{Start: start, End: end}
	if d.hasRange {
		d.pending = d.pending.Union(r)
	} else {
		d.pending = r
		d.hasRange = true
	}

	if d.cancel != nil {
		return
	}
	d.cancel = d.scheduler.Schedule(d.flush)
	if d.cancel == nil {
		d.cancel = func() {}
	}
}

// Pending returns the range waiting for the next flush.
func (d *Debouncer) Pending() (dirty.RowRange, bool) {
	return d.pending, d.hasRange
}

// IsScheduled returns true while a flush is waiting on the scheduler.
func (d *Debouncer) IsScheduled() bool {
	return d.cancel != nil
}

// flush paints the merged range. Pending state is cleared before the paint
// callback runs so refreshes issued from inside it schedule a new tick.
func (d *Debouncer) flush() {
	if d.disposed {
		return
	}

	r, ok := d.pending, d.hasRange
	rowCount := d.rowCount
	d.pending = dirty.RowRange{}
	d.hasRange = false
	d.cancel = nil

	if !ok {
		return
	}
	clamped, ok := r.Clamp(rowCount)
	if !ok {
		return
	}
	d.paint(clamped.Start, clamped.End)
}

// Dispose drops any pending flush. Later Refresh calls are ignored.
func (d *Debouncer) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.hasRange = false
}
