package app

import (
	"errors"
	"time"

	"github.com/dshills/gridpaint/internal/config"
	"github.com/dshills/gridpaint/internal/renderer/backend"
)

// dispatch handles one event from the input goroutine.
func (app *Application) dispatch(ev backend.Event) {
	begin := time.Now()
	err := app.HandleEvent(ev)
	app.metrics.RecordEvent(time.Since(begin))

	switch {
	case errors.Is(err, ErrQuit):
		app.quit(err)
	case err != nil:
		app.logger.Error("event failed", "type", ev.Type.String(), "error", err)
	}
}

// HandleEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.handleResize(ev.Width, ev.Height)
	case backend.EventFocus:
		app.handleFocus(ev.Focused)
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventInterrupt:
		app.logger.Debug("interrupt", "data", ev.Data)
	}
	return nil
}

// handleResize resizes the grid, lets the renderer pick up the new size,
// then reports it to the coordinator and repaints everything.
func (app *Application) handleResize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	app.metrics.RecordResize()

	app.grid.Resize(cols, rows)
	app.hub.NotifyPixelRatio()
	app.coord.Resize(cols, rows)
	app.refreshAll()
}

// handleFocus maps terminal focus to surface visibility.
func (app *Application) handleFocus(focused bool) {
	ratio := 1.0
	if !focused && app.cfg.Render.PauseWhenHidden {
		ratio = 0
	}
	app.hub.ReportVisibility(Surface, ratio)
}

func (app *Application) handleKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		if ev.Rune == 'q' {
			return ErrQuit
		}
	case backend.KeyCtrlL:
		app.backend.Clear()
		app.grid.Clear()
		app.refreshAll()
	case backend.KeyCtrlZ:
		return app.suspendAndResume()
	}
	return nil
}

// suspendAndResume hides the surface while the process is stopped.
// The terminal loses its contents, so everything is repainted on resume.
func (app *Application) suspendAndResume() error {
	app.hub.ReportVisibility(Surface, 0)

	if err := app.backend.Suspend(); err != nil {
		app.hub.ReportVisibility(Surface, 1)
		return NewComponentError("backend", "suspend", err)
	}
	app.suspend()
	if err := app.backend.Resume(); err != nil {
		return NewComponentError("backend", "resume", err)
	}

	app.hub.ReportVisibility(Surface, 1)
	app.refreshAll()
	return nil
}

// applyConfig installs a reloaded configuration. On error the current
// configuration stays active.
func (app *Application) applyConfig(cfg config.Config, err error) {
	app.metrics.RecordReload(err)
	if err != nil {
		app.logger.Warn("config reload failed, keeping current config", "error", err)
		return
	}

	old := app.cfg
	app.cfg = app.withOverrides(cfg)
	app.level.Set(ParseLogLevel(app.cfg.Logging.Level))
	app.grid.SetTabWidth(app.cfg.Render.TabWidth)

	if app.cfg.Render.FrameRate != old.Render.FrameRate && app.opts.Scheduler == nil {
		app.logger.Info("frame rate change takes effect on restart", "frame_rate", app.cfg.Render.FrameRate)
	}
	if !app.cfg.Render.PauseWhenHidden && app.coord.IsPaused() {
		app.hub.ReportVisibility(Surface, 1)
	}

	if app.cfg.Render.DevicePixelRatio != old.Render.DevicePixelRatio {
		app.hub.NotifyPixelRatio()
	}
	app.coord.ChangeOptions()
	app.refreshAll()

	app.logger.Info("config reloaded")
}
