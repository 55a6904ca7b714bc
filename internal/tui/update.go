package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and advances model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hooksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		for _, id := range msg.ids {
			m.ensureRow(id)
		}
		return m, nil

	case evaluationDoneMsg:
		m.finished = true
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.result = msg.result
		byHook := receiptByHook(msg.result)
		for id := range m.statuses {
			if r, ok := byHook[id]; ok {
				if r.Success {
					m.statuses[id] = StatusSuccess
				} else {
					m.statuses[id] = StatusFailed
				}
				m.durations[id] = r.DurationMs
			} else {
				m.statuses[id] = StatusSkipped
			}
			m.completed++
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	}

	return m, nil
}
