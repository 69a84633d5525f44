package tui

import (
	"fmt"

	"github.com/tinytelemetry/campus/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 24
	sidebarTitle = "College Management"
)

func (m *DashboardModel) clampSidebarCursor() {
	n := len(model.AllSections())
	if m.sidebarCursor < 0 {
		m.sidebarCursor = 0
	}
	if m.sidebarCursor >= n {
		m.sidebarCursor = n - 1
	}
}

func (m *DashboardModel) moveSidebarCursor(delta int) {
	m.sidebarCursor += delta
	m.clampSidebarCursor()
	m.activateSidebarCursor()
}

func (m *DashboardModel) activateSidebarCursor() {
	m.clampSidebarCursor()
	m.selectSection(model.AllSections()[m.sidebarCursor])
}

// buildSidebarLines renders the sidebar rows and maps rendered row numbers
// to section indexes for mouse hit-testing.
func (m *DashboardModel) buildSidebarLines() ([]string, map[int]int) {
	rowToCursor := make(map[int]int)
	entries := m.state.SidebarEntries()
	lines := make([]string, 0, len(entries)+2)

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render(sidebarTitle))
	lines = append(lines, "")

	for i, e := range entries {
		label := fmt.Sprintf("  %s", e.Label)
		if e.Active {
			label = fmt.Sprintf("> %s", e.Label)
		}
		style := lipgloss.NewStyle()
		if e.Active {
			style = style.Bold(true)
		}
		if m.activeFocus == FocusSidebar && m.sidebarCursor == i {
			style = style.Foreground(ColorBlue).Bold(true)
		}
		rowToCursor[len(lines)] = i
		lines = append(lines, style.Render(label))
	}

	return lines, rowToCursor
}

func (m *DashboardModel) sidebarCursorAtMouseRow(y int) (int, bool) {
	_, rowToCursor := m.buildSidebarLines()

	// Mouse rows include the sidebar's top border.
	idx, ok := rowToCursor[y-1]
	return idx, ok
}

// renderSidebar renders section navigation in the left sidebar.
func (m *DashboardModel) renderSidebar(height int) string {
	m.clampSidebarCursor()

	style := lipgloss.NewStyle().
		Width(sidebarWidth-2).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	if m.activeFocus == FocusSidebar {
		style = style.BorderForeground(ColorBlue)
	}

	lines, _ := m.buildSidebarLines()
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
