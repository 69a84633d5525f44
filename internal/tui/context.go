package tui

import tea "github.com/charmbracelet/bubbletea"

// ModalContext provides read-only context to modals, replacing direct access
// to *DashboardModel.
type ModalContext struct {
	ReverseScrollWheel bool
}

// Action identifies what a modal wants the dashboard to do after it closes.
type Action int

const (
	// ActionFocusTable returns keyboard focus to the active table, keeping
	// its cursor.
	ActionFocusTable Action = iota
)

// ActionMsg lets modals talk to the dashboard without mutating it directly.
type ActionMsg struct {
	Action Action
}

// actionMsg wraps ActionMsg as a tea.Cmd.
func actionMsg(a ActionMsg) tea.Cmd {
	return func() tea.Msg { return a }
}
