// Package main is the entry point for gridpaint, which tails text into a
// terminal grid and repaints only the rows that changed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/gridpaint/internal/app"
	"github.com/dshills/gridpaint/internal/renderer/backend"
	"github.com/dshills/gridpaint/internal/trace"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts        app.Options
	sourcePath  string
	dumpTrace   string
	showVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	if f.showVersion {
		fmt.Printf("gridpaint %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	if f.dumpTrace != "" {
		return dumpTrace(f.dumpTrace, os.Stdout)
	}

	source, closeSource, err := openSource(f.sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening source: %v\n", err)
		return 1
	}
	defer closeSource()
	f.opts.Source = source

	// Create application
	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Create terminal backend
	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(terminal); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&f.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.opts.LogFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&f.opts.TracePath, "trace", "", "Record a render trace to this file")
	flag.StringVar(&f.dumpTrace, "dump-trace", "", "Print a recorded render trace and exit")
	flag.StringVar(&f.sourcePath, "source", "", "File to tail into the grid (default: stdin when piped)")
	flag.BoolVar(&f.showVersion, "version", false, "Show version information")
	flag.BoolVar(&f.showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gridpaint - paint text into a terminal grid\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridpaint [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tail -f app.log | gridpaint          Paint a live log\n")
		fmt.Fprintf(os.Stderr, "  gridpaint -source notes.txt          Paint a file\n")
		fmt.Fprintf(os.Stderr, "  gridpaint -trace run.trace           Record paints\n")
		fmt.Fprintf(os.Stderr, "  gridpaint -dump-trace run.trace      Print a recording\n")
	}

	flag.Parse()

	// Validate log level
	switch f.opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.opts.LogLevel)
		os.Exit(1)
	}

	return f
}

// openSource opens path, or stdin when it is not the terminal.
func openSource(path string) (io.Reader, func(), error) {
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, func() {}, err
		}
		return file, func() { _ = file.Close() }, nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, func() {}, nil
	}
	return os.Stdin, func() {}, nil
}

func dumpTrace(path string, w io.Writer) int {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer file.Close()

	n, err := trace.Dump(w, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading trace after %d records: %v\n", n, err)
		return 1
	}
	return 0
}
