package gitio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/knowledgehooks/khook/internal/domain/hook"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// DurableLog persists receipts, metrics, and snapshots under baseDir
// (spec §6: receipt/metrics/snapshot layouts). Every append is
// serialised internally so concurrent hook executions never
// interleave partial writes (spec §4.8: "the receipt/metric log is
// append-only and internally serialised by the I/O layer").
type DurableLog struct {
	baseDir string
	mu      sync.Mutex
}

// NewDurableLog roots a durable log at baseDir, creating receipts/,
// metrics/, and snapshots/ subdirectories on first use.
func NewDurableLog(baseDir string) *DurableLog {
	return &DurableLog{baseDir: baseDir}
}

// Metric is the rolling-file record appended for every evaluation
// (spec §6 metrics layout).
type Metric struct {
	HookID        string    `json:"hookId"`
	ExecutionID   string    `json:"executionId"`
	DurationMs    int64     `json:"durationMs"`
	StepsExecuted int       `json:"stepsExecuted"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Snapshot is an opaque, engine-appended record of graph state at
// evaluation time (spec §6 snapshot layout).
type Snapshot struct {
	ID        string          `json:"id"`
	HookID    string          `json:"hookId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewExecutionID generates an id of the form exec_<epoch-ms>_<9-char
// base36> (spec §6). The suffix comes from a random UUID with its
// hyphens stripped; hex digits are a valid (if not maximally dense)
// base36 alphabet, and reusing uuid.New() avoids hand-rolling another
// randomness source for nine throwaway characters.
func NewExecutionID(now time.Time) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	suffix := raw[:9]
	return fmt.Sprintf("exec_%d_%s", now.UnixMilli(), suffix)
}

// WriteReceipt persists a receipt at receipts/<hookId>/<executionId>.json.
func (l *DurableLog) WriteReceipt(r hook.Receipt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(l.baseDir, "receipts", sanitizeLockName(string(r.HookID)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return khookerrors.NewIoFailure("mkdir receipts dir", err)
	}
	path := filepath.Join(dir, r.ExecutionID+".json")
	return writeJSONFileFsync(path, r)
}

// metricsRotateThreshold bounds the rolling metrics file so a
// long-lived engine process does not grow it unboundedly (SPEC_FULL.md
// supplemented feature: rotate at 10 MiB, keep one ".1" generation).
const metricsRotateThreshold = 10 << 20

// WriteMetrics appends one JSON record to the rolling metrics file,
// rotating it to metrics.jsonl.1 first if it has grown past
// metricsRotateThreshold.
func (l *DurableLog) WriteMetrics(m Metric) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(l.baseDir, "metrics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return khookerrors.NewIoFailure("mkdir metrics dir", err)
	}
	path := filepath.Join(dir, "metrics.jsonl")
	if err := rotateMetricsIfNeeded(path); err != nil {
		return err
	}
	return appendJSONLine(path, m)
}

// rotateMetricsIfNeeded renames path to path+".1" (overwriting any
// prior generation) once path has reached metricsRotateThreshold
// bytes, so the next append starts a fresh file.
func rotateMetricsIfNeeded(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return khookerrors.NewIoFailure("stat "+path, err)
	}
	if info.Size() < metricsRotateThreshold {
		return nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return khookerrors.NewIoFailure("rotate "+path, err)
	}
	return nil
}

// StoreSnapshot appends a snapshot record keyed by hook id.
func (l *DurableLog) StoreSnapshot(s Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(l.baseDir, "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return khookerrors.NewIoFailure("mkdir snapshots dir", err)
	}
	path := filepath.Join(dir, sanitizeLockName(s.HookID)+".jsonl")
	return appendJSONLine(path, s)
}

func writeJSONFileFsync(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return khookerrors.NewIoFailure("marshal "+path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return khookerrors.NewIoFailure("open "+path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return khookerrors.NewIoFailure("write "+path, err)
	}
	if err := f.Sync(); err != nil {
		return khookerrors.NewIoFailure("fsync "+path, err)
	}
	return nil
}

func appendJSONLine(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return khookerrors.NewIoFailure("marshal "+path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return khookerrors.NewIoFailure("open "+path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return khookerrors.NewIoFailure("write "+path, err)
	}
	if err := f.Sync(); err != nil {
		return khookerrors.NewIoFailure("fsync "+path, err)
	}
	return nil
}
