package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/campus/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 60
	minHeight = 15
)

// contentWidth returns the width available for main content, accounting for sidebar.
func (m *DashboardModel) contentWidth() int {
	if m.sidebarVisible {
		return max(40, m.width-sidebarWidth)
	}
	return m.width
}

// layoutHeights computes the vertical sections of the content area so that
// rendering and mouse hit-testing share a single source of truth.
func (m *DashboardModel) layoutHeights() (tabsHeight, filterHeight, tableHeight int) {
	statusLineHeight := 1
	tabsHeight = 1
	if m.hasFilter() {
		filterHeight = 1
	}
	tableHeight = m.height - statusLineHeight - tabsHeight - filterHeight
	return tabsHeight, filterHeight, max(0, tableHeight)
}

func (m *DashboardModel) hasFilter() bool {
	return m.filterActive || m.filterTerm != ""
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	if modal := m.TopModal(); modal != nil {
		return modal.View(m.width, m.height)
	}

	return m.renderDashboard()
}

func (m *DashboardModel) renderDashboard() string {
	if m.height < minHeight || m.width < minWidth {
		return fmt.Sprintf("Terminal too small. Resize to at least %dx%d.", minWidth, minHeight)
	}

	_, _, tableH := m.layoutHeights()

	sections := []string{m.renderTabs()}
	if m.hasFilter() {
		sections = append(sections, m.renderFilter())
	}
	sections = append(sections, m.renderTable(tableH), m.renderStatusLine())
	contentArea := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if !m.sidebarVisible {
		return contentArea
	}
	sidebar := m.renderSidebar(m.height - 2)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, contentArea)
}

type renderedTab struct {
	section model.Section
	text    string
}

func (m *DashboardModel) renderedTabs() []renderedTab {
	entries := m.state.Tabs()
	tabs := make([]renderedTab, len(entries))
	for i, e := range entries {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(ColorGray)
		if e.Active {
			style = style.Foreground(ColorBlack).Background(ColorBlue).Bold(true)
		}
		tabs[i] = renderedTab{section: e.Section, text: style.Render(e.Label)}
	}
	return tabs
}

// renderTabs renders the tab bar above the table. It mirrors the sidebar.
func (m *DashboardModel) renderTabs() string {
	tabs := m.renderedTabs()
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		parts[i] = t.text
	}
	return lipgloss.NewStyle().
		Width(m.contentWidth()).
		MaxHeight(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (m *DashboardModel) renderFilter() string {
	label := lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render("Filter: ")
	var body string
	if m.filterActive {
		body = m.filterInput.View()
	} else {
		body = lipgloss.NewStyle().Foreground(ColorYellow).Render(m.filterTerm) +
			lipgloss.NewStyle().Foreground(ColorGray).Render("  (/ to edit, esc to clear)")
	}
	return lipgloss.NewStyle().Width(m.contentWidth()).MaxHeight(1).Render(label + body)
}

// renderTable renders the active section's table. Only one table is shown.
func (m *DashboardModel) renderTable(height int) string {
	style := lipgloss.NewStyle().
		Width(m.contentWidth() - 2).
		Height(max(1, height-2)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray)
	if m.activeFocus == FocusTable {
		style = style.BorderForeground(ColorBlue)
	}

	st := m.activeTable()
	switch {
	case st == nil:
		return style.Render("")
	case st.err != nil:
		return style.Render(lipgloss.NewStyle().Foreground(ColorRed).Render("Error: " + st.err.Error()))
	case len(st.rowIDs) == 0 && m.filterTerm != "":
		return style.Render(st.table.View() + "\n" +
			lipgloss.NewStyle().Foreground(ColorGray).Render("  no rows match the filter"))
	}
	return style.Render(st.table.View())
}

// renderStatusLine renders the status/help line at the bottom of the screen.
func (m *DashboardModel) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	w := m.contentWidth()
	veryNarrow := w < 60
	narrow := w < 80

	label := m.state.Active().Label()
	leftText := fmt.Sprintf("[%s]", label)
	if veryNarrow {
		leftText = label[:min(5, len(label))]
	}

	var centerText string
	if st := m.activeTable(); st != nil && st.err == nil {
		centerText = fmt.Sprintf("%d records", st.total)
		if m.filterTerm != "" {
			centerText = fmt.Sprintf("%d/%d records", len(st.rowIDs), st.total)
		}
	}

	switch {
	case m.filterActive:
		centerText = "Type to filter • Enter: Apply • ESC: Clear"
	case m.lastError != "":
		centerText += " • error: " + m.lastError
	case m.state.LastTrace() != "" && !narrow:
		centerText += " • " + m.state.LastTrace()
	}

	var rightText string
	switch {
	case veryNarrow:
		rightText = "?:help"
	case narrow:
		rightText = "n e d ?:help"
	default:
		rightText = "n:new e:edit d:delete /:filter ?:help"
		if m.dataSource != "" {
			rightText = m.dataSource + " │ " + rightText
		}
	}

	gap := w - lipgloss.Width(leftText) - lipgloss.Width(centerText) - lipgloss.Width(rightText) - 4
	if gap < 1 {
		// Drop the center text before the hints.
		centerText = truncate(centerText, max(0, w-lipgloss.Width(leftText)-lipgloss.Width(rightText)-5))
		gap = max(1, w-lipgloss.Width(leftText)-lipgloss.Width(centerText)-lipgloss.Width(rightText)-4)
	}

	line := " " + leftText + "  " + centerText + strings.Repeat(" ", gap) + rightText + " "
	return baseStyle.Width(w).MaxHeight(1).Render(line)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return ""
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "~"
}
