// Package ports declares the thin interfaces the engine's core depends
// on without implementing, so infrastructure adapters (logging, CLI
// rendering) can be swapped without touching orchestrator/predicate/
// step-runner code.
package ports

import "context"

// Logger is the engine's structured logging contract. Every call is a
// message plus key/value pairs; implementations enrich entries with a
// correlation ID (correlation_id) when one is present on ctx. Other
// standard fields: component, layer, and hook_id where the call site
// has one.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

type correlationIDKey struct{}

// WithCorrelationID attaches a run/execution correlation id to ctx so
// every log line emitted downstream can be tied back to one
// evaluate() invocation.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts the correlation id from ctx, or "" if none
// was set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
