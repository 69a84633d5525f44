package tui

import (
	"github.com/tinytelemetry/campus/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTables()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case ActionMsg:
		switch msg.Action {
		case ActionFocusTable:
			m.activeFocus = FocusTable
			m.syncTableFocus()
		}
		return m, nil
	}

	return m, nil
}

// handleMouseEvent processes mouse interactions
func (m *DashboardModel) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleMouse(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		return m.handleMouseClick(msg.X, msg.Y)

	case tea.MouseButtonWheelUp:
		if m.reverseScrollWheel {
			m.moveRow(1)
		} else {
			m.moveRow(-1)
		}

	case tea.MouseButtonWheelDown:
		if m.reverseScrollWheel {
			m.moveRow(-1)
		} else {
			m.moveRow(1)
		}
	}

	return m, nil
}

// handleMouseClick selects sections from the sidebar or tab bar and rows
// from the table. Clicks on the action labels edit or delete the row.
func (m *DashboardModel) handleMouseClick(x, y int) (tea.Model, tea.Cmd) {
	if m.width <= 0 || m.height <= 0 {
		return m, nil
	}

	if m.sidebarVisible {
		if x < sidebarWidth {
			m.activeFocus = FocusSidebar
			if idx, ok := m.sidebarCursorAtMouseRow(y); ok {
				m.sidebarCursor = idx
				m.activateSidebarCursor()
			}
			m.syncTableFocus()
			return m, nil
		}
		x -= sidebarWidth
	}

	tabsH, filterH, _ := m.layoutHeights()
	if y < tabsH {
		if section, ok := m.tabAt(x); ok {
			m.selectSection(section)
		}
		return m, nil
	}

	m.activeFocus = FocusTable
	m.syncTableFocus()

	// Table rows start below the panel border and the header with its rule.
	row := y - tabsH - filterH - 3
	st := m.activeTable()
	if st == nil || row < 0 || row >= len(st.rowIDs) {
		return m, nil
	}
	st.table.SetCursor(row)

	// x-1 skips the panel's left border.
	switch st.actionAt(x - 1) {
	case rowActionEdit:
		return m, m.openEdit()
	case rowActionDelete:
		m.requestDelete()
	}
	return m, nil
}

// tabAt maps an x offset inside the content area to a tab.
func (m *DashboardModel) tabAt(x int) (section model.Section, ok bool) {
	offset := 0
	for _, tab := range m.renderedTabs() {
		w := lipgloss.Width(tab.text)
		if x >= offset && x < offset+w {
			return tab.section, true
		}
		offset += w
	}
	return "", false
}
