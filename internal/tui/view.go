package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current evaluation's hook rows and, once finished,
// a closing summary.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("khook watch"))

	if m.err != nil {
		sections = append(sections, failedStyle.Render(fmt.Sprintf("evaluation failed: %v", m.err)))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if len(m.order) > 0 {
		sections = append(sections, sectionStyle.Render("Progress"), m.renderProgress())
		sections = append(sections, sectionStyle.Render("Hooks"))
		sections = append(sections, m.renderRows())
	}

	if m.finished {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(m.renderSummary()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderProgress() string {
	ratio := 0.0
	if m.total > 0 {
		ratio = math.Min(1.0, float64(m.completed)/float64(m.total))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", m.bar.ViewAs(ratio))
}

func (m Model) renderRows() string {
	var lines []string
	for _, id := range m.order {
		status := m.statuses[id]
		line := fmt.Sprintf(" %s %s", StatusIcon(status), id)
		if d, ok := m.durations[id]; ok && d > 0 {
			line = fmt.Sprintf("%s (%s)", line, time.Duration(d*int64(time.Millisecond)).Truncate(time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSummary() string {
	if m.cancelled {
		return "evaluation cancelled"
	}
	if m.result == nil {
		return ""
	}
	return fmt.Sprintf(
		"hooksEvaluated=%d hooksTriggered=%d workflowsExecuted=%d workflowsSuccessful=%d",
		m.result.HooksEvaluated, m.result.HooksTriggered, m.result.WorkflowsExecuted, m.result.WorkflowsSuccessful,
	)
}

// StatusIcon returns the glyph representing a hook row's status.
func StatusIcon(status Status) string {
	switch status {
	case StatusSuccess:
		return firedStyle.Render("✓")
	case StatusFailed:
		return failedStyle.Render("✗")
	case StatusSkipped:
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
