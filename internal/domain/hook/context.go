package hook

import "time"

// StepResult is the outcome of running a single Step.
type StepResult struct {
	StepID     StepID
	Success    bool
	Data       interface{}
	Error      string
	DurationMs int64
}

// ExecutionContext is the mapping from variable name to value that
// lives from step-runner invocation through receipt write. Values may
// be scalars, bindings sequences (graphstore.QueryResult), or JSON-ish
// objects produced by HttpStep.
type ExecutionContext struct {
	StartedAt time.Time
	Vars      map[string]interface{}
	Outputs   []StepResult
}

// NewExecutionContext seeds a fresh context with nowISO, the only
// engine-provided time value templates may reference (spec §4.6:
// TemplateStep must reject ad-hoc clock access).
func NewExecutionContext(startedAt time.Time) *ExecutionContext {
	return &ExecutionContext{
		StartedAt: startedAt,
		Vars: map[string]interface{}{
			"nowISO": startedAt.UTC().Format(time.RFC3339),
		},
	}
}

// Set assigns a named variable in the context.
func (c *ExecutionContext) Set(name string, value interface{}) {
	if c.Vars == nil {
		c.Vars = make(map[string]interface{})
	}
	c.Vars[name] = value
}

// Get reads a named variable, reporting whether it was present.
func (c *ExecutionContext) Get(name string) (interface{}, bool) {
	v, ok := c.Vars[name]
	return v, ok
}

// RecordOutput appends a step result to the append-only outputs list.
func (c *ExecutionContext) RecordOutput(result StepResult) {
	c.Outputs = append(c.Outputs, result)
}

// GetOutputs returns the append-only list of step results recorded so
// far, in the order they completed.
func (c *ExecutionContext) GetOutputs() []StepResult {
	return c.Outputs
}
