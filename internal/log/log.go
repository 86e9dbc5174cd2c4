// Package log builds the transcript logger for csrsweep.
//
// Every notable event of a run goes to a single timestamped, append-only
// transcript: a rotating log file (when configured) plus the console.
// Deployments read the file; operators invoking the tool by hand get the
// pretty console form when stderr is a terminal.
package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Options configures the transcript logger.
type Options struct {
	Level string // zerolog level name; defaults to info

	// File enables the rotating file transcript when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Quiet suppresses console output. The file transcript, when
	// configured, is always written.
	Quiet bool

	// Console overrides the console writer; defaults to os.Stderr.
	// Used by tests.
	Console io.Writer
}

// New builds the logger. The returned close function flushes and closes
// the file transcript and is safe to call when no file is configured.
func New(opts Options) (zerolog.Logger, func(), error) {
	var writers []io.Writer
	closer := func() {}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), closer, err
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		writers = append(writers, lj)
		closer = func() { _ = lj.Close() }
	}

	if !opts.Quiet {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		if f, ok := console.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			console = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
		}
		writers = append(writers, console)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(io.MultiWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	return logger, closer, nil
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}
