package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/knowledgehooks/khook/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestLoggerEmitsJSONWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf, Component: "orchestrator"})

	ctx := ports.WithCorrelationID(context.Background(), "exec_1_abc123xyz")
	l.Info(ctx, "evaluated hook", "hook_id", "http://ex/h1")

	out := buf.String()
	require.Contains(t, out, `"component":"orchestrator"`)
	require.Contains(t, out, `"correlation_id":"exec_1_abc123xyz"`)
	require.Contains(t, out, `"hook_id":"http://ex/h1"`)
	require.Contains(t, out, "evaluated hook")
}

func TestLoggerWithAddsPersistentFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf})

	derived := l.With("hook_id", "h1")
	derived.Info(context.Background(), "step started")

	require.Contains(t, buf.String(), `"hook_id":"h1"`)
}
