// Package steprunner executes the seven step kinds against an execution
// context, each producing a hook.StepResult (spec §4.6).
package steprunner

import (
	"context"
	"os"
	"time"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// DefaultCliTimeout is the hard default for CliStep when the step
// carries no TimeoutMs override (spec §4.6).
const DefaultCliTimeout = 60 * time.Second

// Deps bundles the collaborators a step needs beyond its own fields:
// the current graph (for SparqlStep) and engine-wide limits.
type Deps struct {
	Graph         *graphstore.Store
	MaxHTTPBuffer int // carried from config but not applied: HttpStep reads the whole response body
	MaxCliBuffer  int // max bytes captured from CliStep stdout/stderr; 0 means unbounded
}

// Run executes step against ctx, honouring effectiveTimeout
// (min(stepTimeout, orchestratorTimeout), spec §4.8) and returns the
// step's result. A step that fails (e.g. HTTP 500, an I/O error, an
// unknown kind) is recorded as Success=false with a nil error; a
// CliStep whose command exits non-zero still succeeds, with the exit
// code in its data. Run returns an error only when the effective
// timeout expires (StepTimeout).
func Run(parent context.Context, deps Deps, ectx *hook.ExecutionContext, step hook.Step, effectiveTimeout time.Duration) (hook.StepResult, error) {
	start := time.Now()

	ctx := parent
	var cancel context.CancelFunc
	if effectiveTimeout > 0 {
		ctx, cancel = context.WithTimeout(parent, effectiveTimeout)
		defer cancel()
	}

	var data interface{}
	var stepErr error

	switch step.Kind {
	case hook.StepSparql:
		data, stepErr = runSparql(deps, step.Sparql)
	case hook.StepTemplate:
		data, stepErr = runTemplate(string(step.ID), ectx, step.Template)
	case hook.StepFile:
		data, stepErr = runFile(step.File)
	case hook.StepCli:
		data, stepErr = runCli(ctx, deps, step.Cli)
	case hook.StepHTTP:
		data, stepErr = runHTTP(ctx, step.HTTP)
	case hook.StepOutput:
		data, stepErr = runOutput(string(step.ID), ectx, step.Output)
	case hook.StepRepo:
		data, stepErr = runRepo(step.Repo)
	default:
		stepErr = khookerrors.NewStepFailure(string(step.ID), errUnknownStepKind(string(step.Kind)))
	}

	duration := time.Since(start).Milliseconds()

	if ctx.Err() == context.DeadlineExceeded {
		return hook.StepResult{StepID: step.ID, Success: false, Error: "timed out", DurationMs: duration},
			khookerrors.NewStepTimeout(string(step.ID), ctx.Err())
	}

	if stepErr != nil {
		return hook.StepResult{StepID: step.ID, Success: false, Error: stepErr.Error(), DurationMs: duration}, nil
	}

	return hook.StepResult{StepID: step.ID, Success: true, Data: data, DurationMs: duration}, nil
}

// EffectiveTimeout computes min(stepTimeoutMs, orchestratorTimeoutMs)
// for a step of the given kind (spec §4.8: "every step carries an
// effective timeout"). When the step itself carries no timeout,
// CliStep falls back to DefaultCliTimeout (spec §4.6's 60s default);
// every other kind falls back to the orchestrator-wide timeout
// directly, since §4.6's 60s figure is scoped to CliStep only.
func EffectiveTimeout(kind hook.StepKind, stepTimeoutMs, orchestratorTimeout time.Duration) time.Duration {
	step := stepTimeoutMs
	if step <= 0 {
		if kind != hook.StepCli {
			return orchestratorTimeout
		}
		step = DefaultCliTimeout
	}
	if orchestratorTimeout <= 0 {
		return step
	}
	if step < orchestratorTimeout {
		return step
	}
	return orchestratorTimeout
}

func readFileIfSet(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", khookerrors.NewIoFailure("read "+path, err)
	}
	return string(data), nil
}

type unknownStepKindError struct{ kind string }

func (e *unknownStepKindError) Error() string { return "unknown step kind: " + e.kind }

func errUnknownStepKind(kind string) error { return &unknownStepKindError{kind: kind} }
