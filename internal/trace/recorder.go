package trace

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/dshills/gridpaint/internal/renderer/coordinator"
	"github.com/dshills/gridpaint/internal/renderer/lifecycle"
)

// ErrClosed is returned when writing to a closed Recorder.
var ErrClosed = errors.New("trace: recorder closed")

// Recorder appends Records to a writer. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	encoder *cbor.Encoder
	closer  io.Closer
	now     func() time.Time
	seq     uint64
	err     error
	closed  bool
	subs    *lifecycle.Store
}

// NewRecorder creates a Recorder writing to w. If w is an io.Closer it is
// closed by Close.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{
		encoder: newEncoder(w),
		now:     time.Now,
		subs:    lifecycle.NewStore(),
	}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Create opens path for appending and returns a Recorder on it.
func Create(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return NewRecorder(f), nil
}

// Attach subscribes the recorder to c's render and canvas-resize streams.
// The subscriptions end on Close.
func (r *Recorder) Attach(c *coordinator.Coordinator) {
	r.subs.Add(c.OnRender(func(ev coordinator.RenderEvent) {
		_ = r.Write(Record{Kind: KindRender, Start: ev.Start, End: ev.End})
	}))
	r.subs.Add(c.OnCanvasResize(func(ev coordinator.CanvasResizeEvent) {
		_ = r.Write(Record{Kind: KindCanvasResize, Width: ev.Width, Height: ev.Height})
	}))
}

// Write stamps rec with the next sequence number and the current time, then
// encodes it. The first encoding error sticks and is returned by Err.
func (r *Recorder) Write(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.err != nil {
		return r.err
	}

	r.seq++
	rec.Seq = r.seq
	if rec.Time.IsZero() {
		rec.Time = r.now()
	}
	if err := r.encoder.Encode(rec); err != nil {
		r.err = err
		return err
	}
	return nil
}

// Count returns how many records were written.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close ends all subscriptions and closes the underlying writer.
// Safe to call multiple times.
func (r *Recorder) Close() error {
	r.subs.Dispose()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
