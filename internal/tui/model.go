// Package tui implements the `watch` subcommand's live view over a
// single evaluate() call: one hook per row, its status, and a closing
// summary (spec SPEC_FULL.md "watch live dashboard").
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/orchestrator"
)

// Status is a hook row's display state.
type Status string

const (
	StatusPending Status = "pending"
	StatusSkipped Status = "skipped"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type hooksLoadedMsg struct {
	ids []string
	err error
}

type evaluationDoneMsg struct {
	result *orchestrator.EvaluationResult
	err    error
}

// Model is the Bubbletea state for one `watch` run.
type Model struct {
	orc *orchestrator.Orchestrator
	ctx context.Context

	order     []string
	statuses  map[string]Status
	durations map[string]int64

	bar       progress.Model
	total     int
	completed int
	finished  bool
	cancelled bool

	result *orchestrator.EvaluationResult
	err    error
}

// NewModel constructs the watch dashboard model for one evaluate() run
// driven through orc.
func NewModel(ctx context.Context, orc *orchestrator.Orchestrator) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	return Model{
		orc:       orc,
		ctx:       ctx,
		statuses:  make(map[string]Status),
		durations: make(map[string]int64),
		bar:       bar,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadHooksCmd(m.ctx, m.orc), runEvaluateCmd(m.ctx, m.orc))
}

func loadHooksCmd(ctx context.Context, orc *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		hooks, _, err := orc.ListHooks(ctx)
		if err != nil {
			return hooksLoadedMsg{err: err}
		}
		ids := make([]string, 0, len(hooks))
		for _, h := range hooks {
			ids = append(ids, string(h.ID))
		}
		return hooksLoadedMsg{ids: ids}
	}
}

func runEvaluateCmd(ctx context.Context, orc *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		result, err := orc.Evaluate(ctx)
		return evaluationDoneMsg{result: result, err: err}
	}
}

func (m *Model) ensureRow(id string) {
	if _, exists := m.statuses[id]; !exists {
		m.order = append(m.order, id)
		m.statuses[id] = StatusPending
		m.total++
	}
}

func receiptByHook(result *orchestrator.EvaluationResult) map[string]hook.Receipt {
	byHook := make(map[string]hook.Receipt, len(result.Executions))
	for _, r := range result.Executions {
		byHook[string(r.HookID)] = r
	}
	return byHook
}
