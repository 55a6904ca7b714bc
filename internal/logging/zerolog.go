// Package logging backs ports.Logger with github.com/rs/zerolog, the
// logging dependency actually declared in the engine's go.mod.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knowledgehooks/khook/internal/ports"
	"github.com/rs/zerolog"
)

// Options configures the zerolog adapter.
type Options struct {
	Writer    io.Writer
	Level     string // debug|info|warn|error, default info
	Human     bool   // console-writer pretty output vs. JSON lines
	Component string
	Layer     string
}

// Logger implements ports.Logger on top of a zerolog.Logger.
type Logger struct {
	z     zerolog.Logger
	layer string
}

// New creates a Logger adapter with the supplied options.
func New(opts Options) *Logger {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	if opts.Human {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil {
			level = parsed
		}
	}

	z := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if opts.Component != "" {
		z = z.With().Str("component", opts.Component).Logger()
	}
	layer := opts.Layer
	if layer == "" {
		layer = "engine"
	}
	z = z.With().Str("layer", layer).Logger()

	return &Logger{z: z, layer: layer}
}

func (l *Logger) event(ctx context.Context, e *zerolog.Event, msg string, fields []interface{}) {
	if id := ports.GetCorrelationID(ctx); id != "" {
		e = e.Str("correlation_id", id)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.event(ctx, l.z.Debug(), msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.event(ctx, l.z.Info(), msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.event(ctx, l.z.Warn(), msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.event(ctx, l.z.Error(), msg, fields)
}

// With returns a derived logger carrying the supplied key/value pairs
// on every subsequent call.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &Logger{z: ctx.Logger(), layer: l.layer}
}

var _ ports.Logger = (*Logger)(nil)
