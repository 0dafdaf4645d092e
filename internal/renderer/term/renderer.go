// Package term paints grid rows onto a display backend.
//
// Renderer implements coordinator.Renderer. Its canvas dimensions are the
// backend size in cells multiplied by the configured cell metrics and the
// device pixel ratio.
package term

import (
	"math"
	"sync"
	"time"

	"github.com/dshills/gridpaint/internal/renderer/backend"
	"github.com/dshills/gridpaint/internal/renderer/coordinator"
	"github.com/dshills/gridpaint/internal/renderer/core"
)

// RowSource provides the cells to paint.
type RowSource interface {
	// Row returns the cells of row y, or nil if y is out of range.
	Row(y int) []core.Cell
}

// Metrics describes the pixel size of one cell at a pixel ratio of 1.
type Metrics struct {
	CellWidth  int
	CellHeight int
}

// DefaultMetrics returns metrics for a typical monospace terminal font.
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 9, CellHeight: 18}
}

// MetricsFunc returns the current cell metrics.
type MetricsFunc func() Metrics

// PixelRatioFunc returns the current device pixel ratio.
type PixelRatioFunc func() float64

// Stats holds frame counters.
type Stats struct {
	Frames       uint64
	RowsPainted  uint64
	CellsWritten uint64
	LastFrame    time.Duration
}

// Renderer paints rows from a RowSource onto a Backend.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	source  RowSource

	metricsFn MetricsFunc
	ratioFn   PixelRatioFunc

	metrics Metrics
	ratio   float64
	cols    int
	rows    int

	stats Stats
}

var _ coordinator.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMetrics sets the cell metrics provider.
func WithMetrics(fn MetricsFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.metricsFn = fn
		}
	}
}

// WithPixelRatio sets the device pixel ratio provider.
func WithPixelRatio(fn PixelRatioFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.ratioFn = fn
		}
	}
}

// New creates a renderer drawing source onto b.
func New(b backend.Backend, source RowSource, opts ...Option) *Renderer {
	r := &Renderer{
		backend:   b,
		source:    source,
		metricsFn: DefaultMetrics,
		ratioFn:   func() float64 { return 1 },
	}
	for _, opt := range opts {
		opt(r)
	}

	r.metrics = sanitizeMetrics(r.metricsFn())
	r.ratio = sanitizeRatio(r.ratioFn())
	r.cols, r.rows = b.Size()
	return r
}

// RenderRows paints rows [start, end] and flushes the backend.
func (r *Renderer) RenderRows(start, end int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	begin := time.Now()
	for y := start; y <= end; y++ {
		r.paintRow(y)
	}
	r.backend.Show()

	r.stats.Frames++
	if end >= start {
		r.stats.RowsPainted += uint64(end - start + 1)
	}
	r.stats.LastFrame = time.Since(begin)
}

// paintRow writes the cells of row y that differ from what the backend
// already holds, then blanks the columns past the end of the row.
func (r *Renderer) paintRow(y int) {
	row := r.source.Row(y)
	x := 0
	for _, cell := range row {
		if x >= r.cols {
			break
		}
		// Continuation columns of wide runes are owned by the rune before them.
		if cell.Rune != 0 && !r.backend.GetCell(x, y).Equals(cell) {
			r.backend.SetCell(x, y, cell)
			r.stats.CellsWritten++
		}
		x++
	}
	if x < r.cols {
		r.backend.Fill(core.NewScreenRect(y, x, y+1, r.cols), core.EmptyCell())
	}
}

// OnDevicePixelRatioChange re-reads the pixel ratio and the backend size.
func (r *Renderer) OnDevicePixelRatioChange() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ratio = sanitizeRatio(r.ratioFn())
	r.cols, r.rows = r.backend.Size()
}

// OnOptionsChanged re-reads the cell metrics.
func (r *Renderer) OnOptionsChanged() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics = sanitizeMetrics(r.metricsFn())
}

// Dimensions returns the canvas size in device pixels.
func (r *Renderer) Dimensions() coordinator.Dimensions {
	r.mu.Lock()
	defer r.mu.Unlock()

	return coordinator.Dimensions{
		CanvasWidth:  int(math.Round(float64(r.cols*r.metrics.CellWidth) * r.ratio)),
		CanvasHeight: int(math.Round(float64(r.rows*r.metrics.CellHeight) * r.ratio)),
	}
}

// Size returns the grid size the renderer last read from the backend.
func (r *Renderer) Size() (cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cols, r.rows
}

// Stats returns a snapshot of the frame counters.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func sanitizeMetrics(m Metrics) Metrics {
	def := DefaultMetrics()
	if m.CellWidth <= 0 {
		m.CellWidth = def.CellWidth
	}
	if m.CellHeight <= 0 {
		m.CellHeight = def.CellHeight
	}
	return m
}

func sanitizeRatio(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 1
	}
	return ratio
}
