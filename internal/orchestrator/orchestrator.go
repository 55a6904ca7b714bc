// Package orchestrator drives the top-level hook-evaluation lifecycle:
// load graph, evaluate predicates, schedule triggered hooks onto the
// worker pool, execute their pipelines, and finalise receipts (spec
// §4.8).
package orchestrator

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/knowledgehooks/khook/internal/config"
	"github.com/knowledgehooks/khook/internal/contextmgr"
	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/gitio"
	"github.com/knowledgehooks/khook/internal/graphstore"
	"github.com/knowledgehooks/khook/internal/hookparser"
	"github.com/knowledgehooks/khook/internal/planner"
	"github.com/knowledgehooks/khook/internal/ports"
	"github.com/knowledgehooks/khook/internal/predicate"
	"github.com/knowledgehooks/khook/internal/rdf"
	"github.com/knowledgehooks/khook/internal/steprunner"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// Orchestrator owns the collaborators a single evaluate() invocation
// needs: the bounded worker pool, named-lock manager, and durable
// receipt/metrics/snapshot log. One Orchestrator may drive many
// evaluate() calls over its lifetime.
type Orchestrator struct {
	cfg     *config.Config
	logger  ports.Logger
	pool    *gitio.Pool
	locks   *gitio.LockManager
	durable *gitio.DurableLog
}

// New builds an Orchestrator from a validated Config.
func New(cfg *config.Config, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		logger:  logger,
		pool:    gitio.NewPool(cfg.WorkerPoolSize),
		locks:   gitio.NewLockManager(),
		durable: gitio.NewDurableLog(cfg.DataDir),
	}
}

// Close releases the orchestrator's worker pool.
func (o *Orchestrator) Close() {
	o.pool.Close()
	o.pool.Wait()
}

// loadGraphs initialises the current graph store from cfg.GraphDir and
// best-effort loads the previous-snapshot graph (spec §4.8 steps 1-2).
func (o *Orchestrator) loadGraphs(ctx context.Context) (*graphstore.Store, *graphstore.Store, error) {
	dirResult, err := rdf.LoadDir(o.cfg.GraphDir)
	if err != nil {
		return nil, nil, khookerrors.NewIoFailure("load graph directory", err)
	}
	for _, loadErr := range dirResult.Errors {
		o.logger.Warn(ctx, "skipped unparseable graph file", "path", loadErr.Path, "error", loadErr.Err.Error())
	}
	current := graphstore.FromTriples(dirResult.Triples)

	var previous *graphstore.Store
	if o.cfg.RepoPath != "" {
		graphDir := o.cfg.PreviousGraphDir
		if graphDir == "" {
			graphDir = o.cfg.GraphDir
		}
		triples, err := gitio.NewPreviousGraphLoader(o.cfg.RepoPath, graphDir).Load()
		if err != nil {
			o.logger.Warn(ctx, "previous snapshot load failed, treating as absent", "error", err.Error())
		} else if triples != nil {
			previous = graphstore.FromTriples(triples)
		}
	}

	return current, previous, nil
}

// Evaluate runs one full evaluation (spec §4.8). It returns an error
// only when the current graph cannot be loaded at all; hook-scoped
// failures are not returned. Execution failures are captured in the
// returned result's receipts. A predicate that fails to evaluate is
// logged and its hook counts as not fired; that failure is not
// recorded in the result.
func (o *Orchestrator) Evaluate(ctx context.Context) (*EvaluationResult, error) {
	startedAt := time.Now()
	executionID := gitio.NewExecutionID(startedAt)
	ctx = ports.WithCorrelationID(ctx, executionID)

	ctx, cancel := context.WithTimeout(ctx, o.cfg.OrchestratorTimeout())
	defer cancel()

	current, previous, err := o.loadGraphs(ctx)
	if err != nil {
		return nil, err
	}

	hooks, parseErrs := hookparser.ParseAll(current)
	for _, e := range parseErrs {
		o.logger.Warn(ctx, "malformed hook skipped", "error", e.Error())
	}

	result := &EvaluationResult{
		HooksEvaluated: len(hooks),
		Metadata: Metadata{
			ExecutionID:   executionID,
			PreviousGraph: previous != nil,
		},
	}
	for _, e := range parseErrs {
		result.Metadata.MalformedHooks = append(result.Metadata.MalformedHooks, e.Error())
	}

	type triggered struct {
		h hook.Hook
	}
	var fired []triggered
	for _, h := range hooks {
		res, err := predicate.Evaluate(h.ID, h.Predicate, current, previous)
		if err != nil {
			o.logger.Warn(ctx, "predicate evaluation failed", "hook_id", string(h.ID), "error", err.Error())
			continue
		}
		if res.Fired {
			fired = append(fired, triggered{h: h})
		}
	}
	result.HooksTriggered = len(fired)

	var mu sync.Mutex
	var futures []*gitio.Future
	for _, t := range fired {
		h := t.h
		future := o.pool.Submit(gitio.PriorityHigh, 0, func(jobCtx context.Context) (interface{}, error) {
			return o.runHook(jobCtx, h, executionID, current), nil
		})
		futures = append(futures, future)
	}

	for _, f := range futures {
		val, err := f.Wait(ctx)
		if err != nil {
			o.logger.Error(ctx, "hook job future failed", "error", err.Error())
			continue
		}
		receipt := val.(hook.Receipt)
		mu.Lock()
		result.Executions = append(result.Executions, receipt)
		result.WorkflowsExecuted++
		if receipt.Success {
			result.WorkflowsSuccessful++
		}
		mu.Unlock()
	}

	sort.Slice(result.Executions, func(i, j int) bool {
		return result.Executions[i].HookID < result.Executions[j].HookID
	})

	if err := o.writeAggregateReceipt(result); err != nil {
		o.logger.Error(ctx, "failed to persist aggregate metrics", "error", err.Error())
	}

	return result, nil
}

// runHook is the job body submitted to the worker pool for one fired
// hook (spec §4.8 step 5).
func (o *Orchestrator) runHook(ctx context.Context, h hook.Hook, runExecutionID string, current *graphstore.Store) hook.Receipt {
	startedAt := time.Now()
	executionID := runExecutionID + "_" + shortHash(h.ID)
	lockName := "hook-execution-" + string(h.ID)

	receipt := hook.Receipt{HookID: h.ID, ExecutionID: executionID, StartedAt: startedAt}

	if !o.locks.AcquireLock(ctx, lockName, o.cfg.LockTimeout()) {
		err := khookerrors.NewLockUnavailable(lockName)
		receipt.Success = false
		receipt.Error = err.Error()
		receipt.FinishedAt = time.Now()
		receipt.DurationMs = receipt.FinishedAt.Sub(startedAt).Milliseconds()
		o.persistReceipt(ctx, receipt)
		return receipt
	}
	defer o.locks.ReleaseLock(lockName)

	ectx := hook.NewExecutionContext(startedAt)
	mgr := contextmgr.New(ectx)

	success := true
	var failureErr string

pipelineLoop:
	for _, pipeline := range h.Pipelines {
		graph, err := planner.Build(h.ID, pipeline.Steps)
		if err != nil {
			success = false
			failureErr = err.Error()
			break
		}

		stepByID := make(map[hook.StepID]*hook.Step, len(pipeline.Steps))
		for i := range pipeline.Steps {
			stepByID[pipeline.Steps[i].ID] = &pipeline.Steps[i]
		}

		deps := steprunner.Deps{Graph: current, MaxHTTPBuffer: o.cfg.MaxHTTPBuffer, MaxCliBuffer: o.cfg.MaxCliBuffer}

		for _, level := range graph.Levels {
			results := make([]hook.StepResult, len(level))
			var wg sync.WaitGroup
			for i, stepID := range level {
				wg.Add(1)
				go func(i int, stepID hook.StepID) {
					defer wg.Done()
					step := stepByID[stepID]
					timeout := steprunner.EffectiveTimeout(step.Kind, timeoutFromStep(step), o.cfg.OrchestratorTimeout())
					res, runErr := steprunner.Run(ctx, deps, ectx, *step, timeout)
					if runErr != nil {
						res.Success = false
						if res.Error == "" {
							res.Error = runErr.Error()
						}
					}
					results[i] = res
				}(i, stepID)
			}
			wg.Wait()

			for i, res := range results {
				step := stepByID[level[i]]
				mgr.RecordOutput(res, step.OutputMapping)
				if !res.Success {
					success = false
					failureErr = res.Error
				}
			}
			if !success {
				break pipelineLoop
			}
		}
	}

	receipt.FinishedAt = time.Now()
	receipt.DurationMs = receipt.FinishedAt.Sub(startedAt).Milliseconds()
	receipt.Success = success
	receipt.Error = failureErr
	receipt.StepResults = mgr.GetOutputs()

	o.persistReceipt(ctx, receipt)
	o.persistSnapshot(ctx, h, receipt)

	return receipt
}

func timeoutFromStep(step *hook.Step) time.Duration {
	if step.Kind == hook.StepCli && step.Cli != nil && step.Cli.TimeoutMs > 0 {
		return time.Duration(step.Cli.TimeoutMs) * time.Millisecond
	}
	return 0
}

func (o *Orchestrator) persistReceipt(ctx context.Context, r hook.Receipt) {
	if err := o.durable.WriteReceipt(r); err != nil {
		o.logger.Error(ctx, "failed to write receipt", "hook_id", string(r.HookID), "error", err.Error())
	}
	metric := gitio.Metric{
		HookID:        string(r.HookID),
		ExecutionID:   r.ExecutionID,
		DurationMs:    r.DurationMs,
		StepsExecuted: len(r.StepResults),
		Success:       r.Success,
		Error:         r.Error,
		Timestamp:     r.FinishedAt,
	}
	if err := o.durable.WriteMetrics(metric); err != nil {
		o.logger.Error(ctx, "failed to write metrics", "hook_id", string(r.HookID), "error", err.Error())
	}
}

func (o *Orchestrator) persistSnapshot(ctx context.Context, h hook.Hook, r hook.Receipt) {
	payload, err := json.Marshal(r.StepResults)
	if err != nil {
		return
	}
	snap := gitio.Snapshot{ID: r.ExecutionID, HookID: string(h.ID), Timestamp: r.FinishedAt, Payload: payload}
	if err := o.durable.StoreSnapshot(snap); err != nil {
		o.logger.Error(ctx, "failed to store snapshot", "hook_id", string(h.ID), "error", err.Error())
	}
}

func (o *Orchestrator) writeAggregateReceipt(result *EvaluationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return o.durable.StoreSnapshot(gitio.Snapshot{
		ID:        result.Metadata.ExecutionID,
		HookID:    "__aggregate__",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// ListHooks parses the current graph and returns every materialised
// hook without evaluating predicates or executing anything (spec
// §4.8: "Also exposes listHooks()").
func (o *Orchestrator) ListHooks(ctx context.Context) ([]hook.Hook, []error, error) {
	current, _, err := o.loadGraphs(ctx)
	if err != nil {
		return nil, nil, err
	}
	hooks, errs := hookparser.ParseAll(current)
	return hooks, errs, nil
}

// ValidateHook parses id's hook and plans each of its pipelines,
// surfacing MalformedHook / InvalidPlan diagnostics without executing
// any step (spec §4.8 / supplemented `hookctl validate`).
func (o *Orchestrator) ValidateHook(ctx context.Context, id hook.HookID) error {
	current, _, err := o.loadGraphs(ctx)
	if err != nil {
		return err
	}
	hooks, errs := hookparser.ParseAll(current)
	for _, e := range errs {
		if me, ok := e.(*khookerrors.MalformedHook); ok && hook.HookID(me.HookID) == id {
			return e
		}
	}
	for _, h := range hooks {
		if h.ID != id {
			continue
		}
		for _, pipeline := range h.Pipelines {
			if _, err := planner.Build(h.ID, pipeline.Steps); err != nil {
				return err
			}
		}
		return nil
	}
	return khookerrors.NewMalformedHook(string(id), "no such hook", nil)
}

func shortHash(id hook.HookID) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h ^= uint32(id[i])
		h *= 16777619
	}
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = alphabet[h%uint32(len(alphabet))]
		h /= uint32(len(alphabet))
	}
	return string(buf)
}
