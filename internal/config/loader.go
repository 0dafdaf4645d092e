package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "GRIDPAINT_"

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Loader builds a Config from defaults, a file and the environment.
type Loader struct {
	path     string
	readFile func(string) ([]byte, error)
	lookup   LookupFunc
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLookup replaces os.LookupEnv, mainly for tests.
func WithLookup(fn LookupFunc) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.lookup = fn
		}
	}
}

// NewLoader creates a loader for path. An empty path skips the file layer.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:     path,
		readFile: os.ReadFile,
		lookup:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads every layer and validates the result.
// A missing file is not an error.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.path != "" {
		data, err := l.readFile(l.path)
		switch {
		case err == nil:
			if err := Decode(l.path, data, &cfg); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
			// File doesn't exist, not an error
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", l.path, err)
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data into cfg, choosing the format from the file extension.
// Settings absent from data keep their current values.
func Decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			pe := &ParseError{Path: path, Message: err.Error(), Err: err}
			var de *toml.DecodeError
			if errors.As(err, &de) {
				pe.Line, _ = de.Position()
			}
			return pe
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// applyEnv overrides cfg with GRIDPAINT_* variables.
func (l *Loader) applyEnv(cfg *Config) error {
	ints := map[string]*int{
		"CELL_WIDTH":  &cfg.Render.CellWidth,
		"CELL_HEIGHT": &cfg.Render.CellHeight,
		"FRAME_RATE":  &cfg.Render.FrameRate,
		"TAB_WIDTH":   &cfg.Render.TabWidth,
	}
	for name, dst := range ints {
		val, ok := l.lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("parsing %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	if val, ok := l.lookup(EnvPrefix + "PIXEL_RATIO"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fmt.Errorf("parsing %sPIXEL_RATIO: %w", EnvPrefix, err)
		}
		cfg.Render.DevicePixelRatio = f
	}
	if val, ok := l.lookup(EnvPrefix + "PAUSE_WHEN_HIDDEN"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("parsing %sPAUSE_WHEN_HIDDEN: %w", EnvPrefix, err)
		}
		cfg.Render.PauseWhenHidden = b
	}

	// Note: empty string values are treated as valid values, not as unset.
	strs := map[string]*string{
		"LOG_LEVEL":  &cfg.Logging.Level,
		"LOG_FILE":   &cfg.Logging.File,
		"TRACE_PATH": &cfg.Trace.Path,
	}
	for name, dst := range strs {
		if val, ok := l.lookup(EnvPrefix + name); ok {
			*dst = val
		}
	}

	return nil
}
