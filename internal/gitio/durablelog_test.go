package gitio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/stretchr/testify/require"
)

func TestNewExecutionIDFormat(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	id := NewExecutionID(now)
	require.True(t, strings.HasPrefix(id, "exec_1700000000000_"))
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	require.Len(t, parts[2], 9)
	require.NotContains(t, parts[2], "-")
}

func TestWriteReceiptRoundtrip(t *testing.T) {
	dir := t.TempDir()
	log := NewDurableLog(dir)

	r := hook.Receipt{
		HookID:      "http://ex/hook#1",
		ExecutionID: "exec_1_abc123xyz",
		StartedAt:   time.Unix(0, 0).UTC(),
		FinishedAt:  time.Unix(1, 0).UTC(),
		DurationMs:  1000,
		Success:     true,
	}
	require.NoError(t, log.WriteReceipt(r))

	path := filepath.Join(dir, "receipts", sanitizeLockName(string(r.HookID)), r.ExecutionID+".json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got hook.Receipt
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, r.HookID, got.HookID)
	require.Equal(t, r.ExecutionID, got.ExecutionID)
	require.True(t, got.Success)
}

func TestWriteMetricsAppendsLines(t *testing.T) {
	dir := t.TempDir()
	log := NewDurableLog(dir)

	require.NoError(t, log.WriteMetrics(Metric{HookID: "h1", ExecutionID: "e1", Success: true}))
	require.NoError(t, log.WriteMetrics(Metric{HookID: "h1", ExecutionID: "e2", Success: false}))

	data, err := os.ReadFile(filepath.Join(dir, "metrics", "metrics.jsonl"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	var m1 Metric
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m1))
	require.Equal(t, "e1", m1.ExecutionID)
}

func TestWriteMetricsRotatesAtSizeThreshold(t *testing.T) {
	dir := t.TempDir()
	log := NewDurableLog(dir)

	metricsDir := filepath.Join(dir, "metrics")
	require.NoError(t, os.MkdirAll(metricsDir, 0o755))
	path := filepath.Join(metricsDir, "metrics.jsonl")
	oversized := strings.Repeat("x", metricsRotateThreshold)
	require.NoError(t, os.WriteFile(path, []byte(oversized), 0o644))

	require.NoError(t, log.WriteMetrics(Metric{HookID: "h1", ExecutionID: "e1", Success: true}))

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	require.Equal(t, oversized, string(rotated))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)

	var m1 Metric
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m1))
	require.Equal(t, "e1", m1.ExecutionID)
}

func TestStoreSnapshotAppendsPerHook(t *testing.T) {
	dir := t.TempDir()
	log := NewDurableLog(dir)

	require.NoError(t, log.StoreSnapshot(Snapshot{ID: "s1", HookID: "http://ex/hook#1", Payload: json.RawMessage(`{"a":1}`)}))
	require.NoError(t, log.StoreSnapshot(Snapshot{ID: "s2", HookID: "http://ex/hook#1", Payload: json.RawMessage(`{"a":2}`)}))

	path := filepath.Join(dir, "snapshots", sanitizeLockName("http://ex/hook#1")+".jsonl")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
}
