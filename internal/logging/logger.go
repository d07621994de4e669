package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where log lines go.
type Options struct {
	App   string
	Env   string
	Level string
	// File receives JSON lines when set. Otherwise Console decides between a
	// human-readable stderr writer and discarding output.
	File    string
	Console bool
}

// New builds a structured logger. The returned close func releases the log
// file, if any.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	var (
		output  io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		output, closeFn = f, f.Close
	case opts.Console:
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    opts.Env == "production",
		}
	}

	logger := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("app", opts.App).
		Str("env", opts.Env).
		Logger()
	return logger, closeFn, nil
}

// FromContext returns a zerolog.Logger stored in context, or a no-op logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

type loggerKey struct{}

// IntoContext injects a logger into context for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
