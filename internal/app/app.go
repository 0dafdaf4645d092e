// Package app wires the row grid, the terminal renderer and the render
// coordinator into the gridpaint application, and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/gridpaint/internal/config"
	"github.com/dshills/gridpaint/internal/eventloop"
	"github.com/dshills/gridpaint/internal/grid"
	"github.com/dshills/gridpaint/internal/renderer/backend"
	"github.com/dshills/gridpaint/internal/renderer/coordinator"
	"github.com/dshills/gridpaint/internal/renderer/debounce"
	"github.com/dshills/gridpaint/internal/renderer/monitor"
	"github.com/dshills/gridpaint/internal/renderer/term"
	"github.com/dshills/gridpaint/internal/trace"
)

// Surface is the visibility target the coordinator watches.
const Surface = monitor.NamedTarget("terminal")

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. When set, the
	// file is also watched for changes.
	ConfigPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogFile overrides the configured log file.
	LogFile string

	// TracePath enables the render trace and overrides its path.
	TracePath string

	// Source provides lines appended to the grid. Nil leaves the grid empty.
	Source io.Reader

	// Lookup replaces os.LookupEnv for config overrides.
	Lookup config.LookupFunc

	// Logger replaces the logger built from the logging config.
	Logger *slog.Logger

	// Scheduler replaces the frame scheduler driven by the event loop.
	Scheduler debounce.Scheduler
}

// Application is the central coordinator for all gridpaint components.
// Everything except Start, Run and Shutdown executes on the event loop.
type Application struct {
	mu sync.Mutex

	opts    Options
	loader  *config.Loader
	cfg     config.Config
	level   *slog.LevelVar
	logger  *slog.Logger
	logFile io.Closer
	metrics *Metrics

	// Rendering components
	loop     *eventloop.Loop
	backend  backend.Backend
	grid     *grid.Buffer
	renderer *term.Renderer
	hub      *monitor.Hub
	coord    *coordinator.Coordinator

	// Optional components
	watcher  *config.Watcher
	recorder *trace.Recorder

	// suspend blocks until the stopped process is continued.
	suspend func()

	// State
	running   atomic.Bool
	backendUp bool
	done      chan struct{}
	inputWG   sync.WaitGroup
	quitErr   error

	shutdownOnce sync.Once
	shutdownErr  error
}

// New loads the configuration and sets up logging.
func New(opts Options) (*Application, error) {
	loader := config.NewLoader(opts.ConfigPath, config.WithLookup(opts.Lookup))
	cfg, err := loader.Load()
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{
		opts:    opts,
		loader:  loader,
		level:   new(slog.LevelVar),
		metrics: NewMetrics(),
		done:    make(chan struct{}),
		suspend: suspendProcess,
	}
	app.cfg = app.withOverrides(cfg)
	app.level.Set(ParseLogLevel(app.cfg.Logging.Level))

	if err := app.initLogging(); err != nil {
		return nil, err
	}

	app.loop = eventloop.New(eventloop.WithPanicHandler(func(r any) {
		app.logger.Error("panic in loop callback", "panic", r, "stack", string(debug.Stack()))
	}))

	return app, nil
}

// withOverrides applies command-line options on top of cfg.
func (app *Application) withOverrides(cfg config.Config) config.Config {
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		cfg.Logging.File = app.opts.LogFile
	}
	if app.opts.TracePath != "" {
		cfg.Trace.Enabled = true
		cfg.Trace.Path = app.opts.TracePath
	}
	return cfg
}

func (app *Application) initLogging() error {
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger
		return nil
	}

	f, err := OpenLogFile(app.cfg.Logging.File)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	var out io.Writer
	if f != nil {
		out = f
		app.logFile = f
	}
	app.logger = NewLogger(LoggerConfig{Level: app.level, Output: out})
	return nil
}

// SetBackend sets the display backend.
// Must be called before Start or Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Start initializes the backend and every rendering component, then starts
// reading input and the source. Events are handled once the loop runs.
func (app *Application) Start() error {
	select {
	case <-app.done:
		return ErrNotRunning
	default:
	}

	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if app.backend == nil {
		app.running.Store(false)
		return ErrNoBackend
	}

	if err := app.backend.Init(); err != nil {
		app.running.Store(false)
		return &InitError{Component: "backend", Err: err}
	}
	app.backendUp = true

	if err := app.bootstrap(); err != nil {
		_ = app.Shutdown()
		return err
	}

	app.startInput()
	app.startSource()

	app.logger.Info("started", "cols", app.grid.Cols(), "rows", app.grid.Rows())
	return nil
}

// bootstrap creates the components in dependency order.
func (app *Application) bootstrap() error {
	log := WithComponent(app.logger, "app")
	cols, rows := app.backend.Size()

	// 1. Row model and renderer
	app.grid = grid.NewBuffer(cols, rows)
	app.grid.SetTabWidth(app.cfg.Render.TabWidth)
	app.renderer = term.New(app.backend, app.grid,
		term.WithMetrics(app.cellMetrics),
		term.WithPixelRatio(app.pixelRatio),
	)

	// 2. Signal sources
	app.hub = monitor.NewHub()

	// 3. Coordinator
	sched := app.opts.Scheduler
	if sched == nil {
		sched = debounce.NewFrameScheduler(app.loop, app.cfg.Render.FrameRate)
	}
	coord, err := coordinator.New(timedRenderer{Renderer: app.renderer, metrics: app.metrics}, rows, Surface, coordinator.Options{
		Scheduler:  sched,
		Visibility: app.hub,
		PixelRatio: app.hub,
		Logger:     app.logger,
	})
	if err != nil {
		return &InitError{Component: "coordinator", Err: err}
	}
	app.coord = coord
	app.coord.OnCanvasResize(func(ev coordinator.CanvasResizeEvent) {
		log.Debug("canvas resized", "width", ev.Width, "height", ev.Height)
	})

	// 4. Trace recorder, before the first canvas report
	if app.cfg.Trace.Enabled {
		rec, err := trace.Create(app.cfg.Trace.Path)
		if err != nil {
			return &InitError{Component: "trace", Err: err}
		}
		rec.Attach(app.coord)
		app.recorder = rec
		log.Info("recording render trace", "path", app.cfg.Trace.Path)
	}

	// 5. Config watcher. Watch errors are non-fatal.
	if app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.loader, func(cfg config.Config, err error) {
			app.loop.Post(func() { app.applyConfig(cfg, err) })
		}, config.WithErrorHandler(func(err error) {
			log.Warn("config watcher", "error", err)
		}))
		if err != nil {
			log.Warn("config file will not be watched", "path", app.opts.ConfigPath, "error", err)
		} else {
			app.watcher = w
		}
	}

	app.grid.OnChange(app.coord.RequestRefresh)
	app.coord.Resize(cols, rows)
	app.refreshAll()
	return nil
}

// startInput forwards backend events to the loop until shutdown.
func (app *Application) startInput() {
	app.inputWG.Add(1)
	go func() {
		defer app.inputWG.Done()
		for {
			ev := app.backend.PollEvent()
			select {
			case <-app.done:
				return
			default:
			}
			if ev.Type == backend.EventNone {
				continue
			}
			app.loop.Post(func() { app.dispatch(ev) })
		}
	}()
}

// Run starts the application and drains the event loop until ctx is done,
// the user quits, or Stop is called. Components are shut down on return.
// A normal quit returns nil.
func (app *Application) Run(ctx context.Context) error {
	if err := app.Start(); err != nil {
		return err
	}
	defer app.Shutdown()

	err := app.loop.Run(ctx)
	if errors.Is(err, eventloop.ErrStopped) {
		app.mu.Lock()
		err = app.quitErr
		app.mu.Unlock()
	}
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop asks Run to return. Safe to call from any goroutine.
func (app *Application) Stop() {
	app.loop.Stop()
}

// quit records why the loop stops and stops it.
func (app *Application) quit(err error) {
	app.mu.Lock()
	if app.quitErr == nil {
		app.quitErr = err
	}
	app.mu.Unlock()
	app.loop.Stop()
}

// Shutdown releases every component in reverse initialization order.
// It must not race with callbacks on the loop: call it after Run returns,
// or from the goroutine that drives the loop. Safe to call repeatedly.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		app.shutdownErr = app.shutdown()
	})
	return app.shutdownErr
}

func (app *Application) shutdown() error {
	var errs ErrorList

	close(app.done)
	app.loop.Stop()

	if app.watcher != nil {
		errs.Add(NewComponentError("config", "close watcher", app.watcher.Close()).orNil())
	}
	if app.coord != nil {
		app.coord.Dispose()
	}
	if app.recorder != nil {
		errs.Add(NewComponentError("trace", "close", app.recorder.Close()).orNil())
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if app.backendUp {
		app.backend.Shutdown()
		app.inputWG.Wait()
	}
	app.running.Store(false)

	snap := app.metrics.Snapshot()
	app.logger.Info("shutdown",
		"paints", snap.Paints,
		"paint_avg", snap.PaintAvg,
		"events", snap.Events,
		"resizes", snap.Resizes,
		"reloads", snap.Reloads,
		"uptime", snap.Uptime,
	)

	if app.logFile != nil {
		errs.Add(app.logFile.Close())
	}
	return errs.AsError()
}

// cellMetrics feeds the configured cell size to the renderer.
func (app *Application) cellMetrics() term.Metrics {
	return term.Metrics{
		CellWidth:  app.cfg.Render.CellWidth,
		CellHeight: app.cfg.Render.CellHeight,
	}
}

func (app *Application) pixelRatio() float64 {
	return app.cfg.Render.DevicePixelRatio
}

// refreshAll requests a repaint of every row.
func (app *Application) refreshAll() {
	app.coord.RequestRefresh(0, app.coord.RowCount()-1)
}

// IsRunning returns true between Start and Shutdown.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Loop returns the event loop.
func (app *Application) Loop() *eventloop.Loop {
	return app.loop
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Grid returns the row model.
func (app *Application) Grid() *grid.Buffer {
	return app.grid
}

// Coordinator returns the render coordinator.
func (app *Application) Coordinator() *coordinator.Coordinator {
	return app.coord
}

// Renderer returns the terminal renderer.
func (app *Application) Renderer() *term.Renderer {
	return app.renderer
}

// Metrics returns the application counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
