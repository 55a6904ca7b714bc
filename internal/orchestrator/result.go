package orchestrator

import "github.com/knowledgehooks/khook/internal/domain/hook"

// EvaluationResult is evaluate()'s top-level return value (spec §4.8
// step 8).
type EvaluationResult struct {
	HooksEvaluated      int            `json:"hooksEvaluated"`
	HooksTriggered      int            `json:"hooksTriggered"`
	WorkflowsExecuted   int            `json:"workflowsExecuted"`
	WorkflowsSuccessful int            `json:"workflowsSuccessful"`
	Executions          []hook.Receipt `json:"executions"`
	Metadata            Metadata       `json:"metadata"`
}

// Metadata carries run-scoped diagnostics that are not part of any
// single hook's receipt.
type Metadata struct {
	ExecutionID    string   `json:"executionId"`
	MalformedHooks []string `json:"malformedHooks,omitempty"`
	PreviousGraph  bool     `json:"previousGraphLoaded"`
}
