// Package contextmgr implements the Execution Context's read/write API
// and the outputMapping application step runners use to project a
// step's result into named context variables (spec §4.6).
package contextmgr

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
)

// Manager wraps a hook.ExecutionContext with the operations the
// orchestrator and step runners use during one evaluation.
type Manager struct {
	ctx *hook.ExecutionContext
}

// New wraps an existing execution context.
func New(ctx *hook.ExecutionContext) *Manager {
	return &Manager{ctx: ctx}
}

// Set assigns a named context variable.
func (m *Manager) Set(name string, value interface{}) {
	m.ctx.Set(name, value)
}

// Get reads a named context variable.
func (m *Manager) Get(name string) (interface{}, bool) {
	return m.ctx.Get(name)
}

// GetOutputs returns the append-only list of step results recorded so
// far.
func (m *Manager) GetOutputs() []hook.StepResult {
	return m.ctx.GetOutputs()
}

// RecordOutput appends a step result and applies its outputMapping (if
// any) against the result's Data, assigning each mapped context
// variable.
func (m *Manager) RecordOutput(result hook.StepResult, mapping map[string]string) {
	m.ctx.RecordOutput(result)
	if len(mapping) == 0 || !result.Success {
		return
	}
	for ctxVar, path := range mapping {
		if v, ok := ApplyMapping(result.Data, path); ok {
			m.Set(ctxVar, v)
		}
	}
}

// ApplyMapping resolves a dotted JSON path (optionally with [index]
// array accessors, e.g. "rows[0].name") against data and returns the
// value found there. data may already be a Go value (map, slice,
// scalar) or a json.RawMessage/[]byte/string holding serialised JSON.
func ApplyMapping(data interface{}, path string) (interface{}, bool) {
	// SparqlStep's special-cased shorthand: "results" stores the whole
	// bindings sequence rather than indexing into it as JSON (spec
	// §4.6: "If outputMapping specifies results → var, stores
	// context[var] = bindings").
	if path == "results" {
		if res, ok := data.(graphstore.QueryResult); ok {
			return res.Bindings, true
		}
	}

	root, ok := toGeneric(data)
	if !ok {
		return nil, false
	}
	segments := splitPath(path)
	cur := root
	for _, seg := range segments {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// toGeneric normalises data into the map/slice/scalar shape
// encoding/json would produce, so both already-decoded Go values and
// raw JSON bytes/strings can be walked uniformly.
func toGeneric(data interface{}) (interface{}, bool) {
	switch v := data.(type) {
	case nil:
		return nil, false
	case []byte:
		var out interface{}
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, false
		}
		return out, true
	case json.RawMessage:
		var out interface{}
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, false
		}
		return out, true
	case string:
		var out interface{}
		if err := json.Unmarshal([]byte(v), &out); err == nil {
			return out, true
		}
		return v, true
	default:
		return v, true
	}
}

type pathSegment struct {
	key   string
	index int
	isIdx bool
}

func splitPath(path string) []pathSegment {
	path = strings.TrimPrefix(path, "$.")
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return nil
	}
	var segments []pathSegment
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			if idx := strings.IndexByte(part, '['); idx >= 0 {
				if idx > 0 {
					segments = append(segments, pathSegment{key: part[:idx]})
				}
				end := strings.IndexByte(part, ']')
				if end < 0 {
					break
				}
				n, err := strconv.Atoi(part[idx+1 : end])
				if err == nil {
					segments = append(segments, pathSegment{index: n, isIdx: true})
				}
				part = part[end+1:]
				continue
			}
			segments = append(segments, pathSegment{key: part})
			part = ""
		}
	}
	return segments
}

func step(cur interface{}, seg pathSegment) (interface{}, bool) {
	if seg.isIdx {
		arr, ok := cur.([]interface{})
		if !ok || seg.index < 0 || seg.index >= len(arr) {
			return nil, false
		}
		return arr[seg.index], true
	}
	m, ok := cur.(map[string]interface{})
	if !ok {
		return nil, false
	}
	v, ok := m[seg.key]
	return v, ok
}
