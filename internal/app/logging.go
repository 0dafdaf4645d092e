package app

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel parses a level name. Unknown names map to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoggerConfig configures the application logger.
type LoggerConfig struct {
	// Level is the minimum level written. Changing it later changes the
	// logger's level.
	Level *slog.LevelVar

	// Output receives log lines. Defaults to io.Discard since the terminal
	// belongs to the renderer.
	Output io.Writer
}

// NewLogger creates a text logger tagged with the application name.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	if cfg.Level == nil {
		cfg.Level = new(slog.LevelVar)
	}
	h := slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: cfg.Level})
	return slog.New(h).With("app", "gridpaint")
}

// WithComponent returns a logger with the component field set.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// OpenLogFile opens path for appending. An empty path yields nil.
func OpenLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
