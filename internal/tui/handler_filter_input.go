package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type filterInputHandler struct{}

func (h filterInputHandler) HandleKey(m *DashboardModel, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "escape", "esc":
		m.closeFilter(true)
		return true, nil
	case "enter":
		m.closeFilter(false)
		return true, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		if v := m.filterInput.Value(); v != m.filterTerm {
			m.applyFilter(v)
		}
		return true, cmd
	}
}

func (h filterInputHandler) HandleMouse(_ *DashboardModel, _ tea.MouseMsg) (bool, tea.Cmd) {
	return true, nil // swallow mouse events during filter input
}

// openFilter focuses the filter bar, keeping any applied term for editing.
func (m *DashboardModel) openFilter() tea.Cmd {
	m.activeFocus = FocusFilter
	m.filterActive = true
	m.filterInput.SetValue(m.filterTerm)
	m.filterInput.CursorEnd()
	m.syncTableFocus()
	m.resizeTables()
	return m.filterInput.Focus()
}

// closeFilter leaves filter input. clear drops the applied term as well.
func (m *DashboardModel) closeFilter(clear bool) {
	m.filterActive = false
	m.filterInput.Blur()
	if clear {
		m.filterInput.SetValue("")
		m.applyFilter("")
	}
	m.activeFocus = FocusTable
	m.syncTableFocus()
	m.resizeTables()
}
