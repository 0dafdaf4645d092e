package coordinator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/gridpaint/internal/renderer/debounce"
	"github.com/dshills/gridpaint/internal/renderer/dirty"
	"github.com/dshills/gridpaint/internal/renderer/lifecycle"
	"github.com/dshills/gridpaint/internal/renderer/monitor"
	"github.com/dshills/gridpaint/internal/renderer/notify"
)

// ErrNoScheduler is returned by New when Options.Scheduler is nil.
var ErrNoScheduler = errors.New("coordinator: scheduler is required")

// ErrNoRenderer is returned by New when the renderer is nil.
var ErrNoRenderer = errors.New("coordinator: renderer is required")

// Dimensions holds the pixel size of the rendered canvas.
type Dimensions struct {
	CanvasWidth  int
	CanvasHeight int
}

// Renderer paints rows and reports the canvas size.
// Calls must be synchronous and must not call back into the Coordinator.
type Renderer interface {
	// RenderRows paints the inclusive row range [start, end].
	RenderRows(start, end int)

	// OnDevicePixelRatioChange is called when the pixel ratio or the
	// window size may have changed.
	OnDevicePixelRatioChange()

	// OnOptionsChanged is called when presentation options changed.
	OnOptionsChanged()

	// Dimensions returns the current canvas size in pixels.
	Dimensions() Dimensions
}

// CanvasResizeEvent is fired when the canvas pixel size changes.
type CanvasResizeEvent struct {
	Width  int
	Height int
}

// RenderEvent is fired after rows were painted.
type RenderEvent struct {
	Start int
	End   int
}

// Options configures a Coordinator.
type Options struct {
	// Scheduler defines the ticks refreshes are coalesced on. Required.
	Scheduler debounce.Scheduler

	// Visibility enables pause and resume. Without it the surface is
	// treated as always visible.
	Visibility monitor.VisibilitySource

	// PixelRatio forwards pixel-ratio and window-size signals to the renderer.
	PixelRatio monitor.PixelRatioSource

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Coordinator schedules repaints and reports canvas size changes.
type Coordinator struct {
	renderer Renderer
	rowCount int
	logger   *slog.Logger

	debouncer *debounce.Debouncer
	store     *lifecycle.Store

	paused          bool
	needsFullRedraw bool
	canvasWidth     int
	canvasHeight    int

	onCanvasResize *notify.Emitter[CanvasResizeEvent]
	onRender       *notify.Emitter[RenderEvent]
}

// New creates a Coordinator for renderer with rowCount rows, watching
// surface for visibility changes. If any subscription fails, everything
// acquired so far is released before the error is returned.
func New(renderer Renderer, rowCount int, surface monitor.Target, opts Options) (_ *Coordinator, err error) {
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		renderer:       renderer,
		rowCount:       rowCount,
		logger:         logger.With("component", "coordinator"),
		store:          lifecycle.NewStore(),
		onCanvasResize: notify.NewEmitter[CanvasResizeEvent](),
		onRender:       notify.NewEmitter[RenderEvent](),
	}
	defer func() {
		if err != nil {
			c.store.Dispose()
		}
	}()

	c.store.Add(c.onCanvasResize)
	c.store.Add(c.onRender)

	c.debouncer = debounce.New(opts.Scheduler, c.renderRows)
	c.store.Add(c.debouncer)

	if opts.PixelRatio != nil {
		d, watchErr := opts.PixelRatio.WatchPixelRatio(func() {
			c.renderer.OnDevicePixelRatioChange()
		})
		if watchErr != nil {
			return nil, fmt.Errorf("watching pixel ratio: %w", watchErr)
		}
		c.store.Add(d)
	}

	if opts.Visibility != nil && surface != nil {
		d, watchErr := opts.Visibility.WatchVisibility(surface, c.handleVisibility)
		if watchErr != nil {
			return nil, fmt.Errorf("watching visibility of %s: %w", surface.Name(), watchErr)
		}
		c.store.Add(d)
	}

	return c, nil
}

// OnCanvasResize subscribes fn to canvas size changes.
func (c *Coordinator) OnCanvasResize(fn func(CanvasResizeEvent)) *notify.Subscription {
	return c.onCanvasResize.Subscribe(fn)
}

// OnRender subscribes fn to completed paints.
func (c *Coordinator) OnRender(fn func(RenderEvent)) *notify.Subscription {
	return c.onRender.Subscribe(fn)
}

// handleVisibility reacts to the most recent entry of a batch.
func (c *Coordinator) handleVisibility(entries []monitor.VisibilityEntry) {
	if len(entries) == 0 {
		return
	}
	entry := entries[len(entries)-1]

	c.paused = !entry.IsVisible()
	c.logger.Debug("visibility changed", "ratio", entry.Ratio, "paused", c.paused)

	if !c.paused && c.needsFullRedraw {
		c.RequestRefresh(0, c.rowCount-1)
		c.needsFullRedraw = false
	}
}

// RequestRefresh asks for rows [start, end] to be repainted. While paused the
// request only marks that a full refresh is owed on resume.
func (c *Coordinator) RequestRefresh(start, end int) {
	if c.paused {
		c.needsFullRedraw = true
		return
	}
	c.debouncer.Refresh(start, end, c.rowCount)
}

func (c *Coordinator) renderRows(start, end int) {
	c.renderer.RenderRows(start, end)
	c.onRender.Fire(RenderEvent{Start: start, End: end})
}

// Resize records the new row count and checks for a canvas size change.
// cols only matters to the renderer.
func (c *Coordinator) Resize(cols, rows int) {
	c.rowCount = rows
	c.logger.Debug("resize", "cols", cols, "rows", rows)
	c.fireOnCanvasResize()
}

// ChangeOptions tells the renderer that presentation options changed and
// checks for a canvas size change.
func (c *Coordinator) ChangeOptions() {
	c.renderer.OnOptionsChanged()
	c.fireOnCanvasResize()
}

func (c *Coordinator) fireOnCanvasResize() {
	dims := c.renderer.Dimensions()
	if dims.CanvasWidth == c.canvasWidth && dims.CanvasHeight == c.canvasHeight {
		return
	}
	c.canvasWidth = dims.CanvasWidth
	c.canvasHeight = dims.CanvasHeight
	c.onCanvasResize.Fire(CanvasResizeEvent{
		Width:  c.canvasWidth,
		Height: c.canvasHeight,
	})
}

// SetRenderer swaps the active renderer. Paused state, row count and the
// last reported canvas size are kept.
func (c *Coordinator) SetRenderer(renderer Renderer) {
	c.renderer = renderer
}

// Renderer returns the active renderer.
func (c *Coordinator) Renderer() Renderer {
	return c.renderer
}

// IsPaused returns true while the surface is not visible.
func (c *Coordinator) IsPaused() bool {
	return c.paused
}

// NeedsFullRefresh returns true if a catch-up refresh is owed on resume.
func (c *Coordinator) NeedsFullRefresh() bool {
	return c.needsFullRedraw
}

// RowCount returns the current number of rows.
func (c *Coordinator) RowCount() int {
	return c.rowCount
}

// CanvasSize returns the last reported canvas dimensions.
func (c *Coordinator) CanvasSize() Dimensions {
	return Dimensions{CanvasWidth: c.canvasWidth, CanvasHeight: c.canvasHeight}
}

// PendingRange returns the rows waiting for the next paint tick.
func (c *Coordinator) PendingRange() (dirty.RowRange, bool) {
	return c.debouncer.Pending()
}

// Dispose releases the scheduler, monitor subscriptions and notification
// streams. No paint fires after Dispose returns. Safe to call repeatedly.
func (c *Coordinator) Dispose() {
	c.store.Dispose()
}
