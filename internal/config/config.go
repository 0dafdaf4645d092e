// Package config loads gridpaint configuration.
//
// Configuration comes from three layers, lowest priority first: built-in
// defaults, a TOML or YAML file, and GRIDPAINT_* environment variables.
// A Watcher reloads the file when it changes on disk.
package config

import (
	"fmt"
	"strings"
)

// Config is the complete application configuration.
type Config struct {
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Trace   TraceConfig   `toml:"trace" yaml:"trace"`
}

// RenderConfig controls painting and canvas metrics.
type RenderConfig struct {
	// CellWidth and CellHeight are the pixel size of one cell at a pixel
	// ratio of 1.
	CellWidth  int `toml:"cell_width" yaml:"cell_width"`
	CellHeight int `toml:"cell_height" yaml:"cell_height"`

	// DevicePixelRatio scales cell metrics to device pixels.
	DevicePixelRatio float64 `toml:"device_pixel_ratio" yaml:"device_pixel_ratio"`

	// FrameRate caps how many paints per second are issued.
	FrameRate int `toml:"frame_rate" yaml:"frame_rate"`

	// TabWidth is the distance between tab stops in the grid.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// PauseWhenHidden suspends painting while the terminal is unfocused.
	PauseWhenHidden bool `toml:"pause_when_hidden" yaml:"pause_when_hidden"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// TraceConfig controls the render trace recorder.
type TraceConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			CellWidth:        9,
			CellHeight:       18,
			DevicePixelRatio: 1,
			FrameRate:        60,
			TabWidth:         4,
			PauseWhenHidden:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Trace: TraceConfig{
			Path: "gridpaint.trace",
		},
	}
}

var validLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs ValidationErrors

	if c.Render.CellWidth <= 0 {
		errs = append(errs, FieldError{Field: "render.cell_width", Message: "must be positive"})
	}
	if c.Render.CellHeight <= 0 {
		errs = append(errs, FieldError{Field: "render.cell_height", Message: "must be positive"})
	}
	if c.Render.DevicePixelRatio <= 0 {
		errs = append(errs, FieldError{Field: "render.device_pixel_ratio", Message: "must be positive"})
	}
	if c.Render.FrameRate <= 0 || c.Render.FrameRate > 240 {
		errs = append(errs, FieldError{Field: "render.frame_rate", Message: "must be between 1 and 240"})
	}
	if c.Render.TabWidth < 1 || c.Render.TabWidth > 16 {
		errs = append(errs, FieldError{Field: "render.tab_width", Message: "must be between 1 and 16"})
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, FieldError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	if c.Trace.Enabled && c.Trace.Path == "" {
		errs = append(errs, FieldError{Field: "trace.path", Message: "required when tracing is enabled"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
