package tui

import (
	"strconv"

	"github.com/tinytelemetry/campus/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress dispatches key events: modal stack first, then the inline
// filter handler, then global dashboard shortcuts.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleKey(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	return m.handleGlobalKeys(msg)
}

// handleGlobalKeys handles dashboard-level shortcuts.
// Only reached when no modal is on the stack and no inline handler is active.
func (m *DashboardModel) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Escape):
		if m.filterTerm != "" {
			m.closeFilter(true)
		}
		return m, nil

	case key.Matches(msg, k.Help):
		m.PushModal(NewHelpModal(m))
		return m, nil

	case key.Matches(msg, k.Filter):
		return m, m.openFilter()

	case key.Matches(msg, k.ToggleSidebar):
		m.sidebarVisible = !m.sidebarVisible
		if !m.sidebarVisible && m.activeFocus == FocusSidebar {
			m.activeFocus = FocusTable
			m.syncTableFocus()
		}
		m.resizeTables()
		return m, nil

	case key.Matches(msg, k.NextSection):
		m.stepSection(1)
		return m, nil

	case key.Matches(msg, k.PrevSection):
		m.stepSection(-1)
		return m, nil

	case key.Matches(msg, k.JumpSection):
		if n, err := strconv.Atoi(msg.String()); err == nil {
			sections := model.AllSections()
			if n >= 1 && n <= len(sections) {
				m.selectSection(sections[n-1])
			}
		}
		return m, nil

	case key.Matches(msg, k.NextFocus), key.Matches(msg, k.PrevFocus):
		m.toggleFocus()
		return m, nil

	case key.Matches(msg, k.Create):
		return m, m.openCreate()
	}

	if m.activeFocus == FocusSidebar && m.sidebarVisible {
		switch {
		case key.Matches(msg, k.Up):
			m.moveSidebarCursor(-1)
			return m, nil
		case key.Matches(msg, k.Down):
			m.moveSidebarCursor(1)
			return m, nil
		case key.Matches(msg, k.Enter):
			m.activateSidebarCursor()
			m.activeFocus = FocusTable
			m.syncTableFocus()
			return m, nil
		}
		// Record keys still act on the highlighted row of the active table.
	}

	switch {
	case key.Matches(msg, k.Up):
		m.moveRow(-1)
	case key.Matches(msg, k.Down):
		m.moveRow(1)
	case key.Matches(msg, k.Home):
		if st := m.activeTable(); st != nil {
			st.table.GotoTop()
		}
	case key.Matches(msg, k.End):
		if st := m.activeTable(); st != nil {
			st.table.GotoBottom()
		}
	case key.Matches(msg, k.Edit):
		return m, m.openEdit()
	case key.Matches(msg, k.Delete):
		m.requestDelete()
	}

	return m, nil
}

// toggleFocus moves focus between the sidebar and the table.
func (m *DashboardModel) toggleFocus() {
	if m.activeFocus == FocusTable && m.sidebarVisible {
		m.activeFocus = FocusSidebar
		m.sidebarCursor = sectionIndex(m.state.Active())
	} else {
		m.activeFocus = FocusTable
	}
	m.syncTableFocus()
}

// openCreate opens the record dialog in create mode.
func (m *DashboardModel) openCreate() tea.Cmd {
	m.state.OpenCreate()
	return m.pushRecordForm()
}

// openEdit opens the record dialog for the highlighted row.
func (m *DashboardModel) openEdit() tea.Cmd {
	id, ok := m.selectedRecordID()
	if !ok {
		return nil
	}
	if err := m.state.OpenEditByID(id); err != nil {
		m.lastError = err.Error()
		return nil
	}
	return m.pushRecordForm()
}

func (m *DashboardModel) pushRecordForm() tea.Cmd {
	form, err := NewRecordFormModal(m.state)
	if err != nil {
		m.state.Dismiss()
		m.lastError = err.Error()
		return nil
	}
	m.lastError = ""
	m.PushModal(form)
	return form.focusField()
}

// requestDelete traces a delete of the highlighted row.
func (m *DashboardModel) requestDelete() {
	id, ok := m.selectedRecordID()
	if !ok {
		return
	}
	m.state.RequestDelete(id)
}
