package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/campus/internal/dashboard"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const recordFormWidth = 56

// RecordFormModal is the create/edit dialog of the active section. It is a
// view over dashboard.State: closing it always leaves the dialog closed.
type RecordFormModal struct {
	state  *dashboard.State
	title  string
	fields []dashboard.FormField
	inputs []textinput.Model
	focus  int

	// Last rendered box, in screen cells, for backdrop clicks.
	boxX, boxY, boxW, boxH int
}

// NewRecordFormModal builds the dialog from the state's current title and
// fields. The state's dialog must already be open.
func NewRecordFormModal(state *dashboard.State) (*RecordFormModal, error) {
	fields, err := state.DialogFields()
	if err != nil {
		return nil, err
	}

	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}

	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-*s ", labelWidth+1, f.Label+":")
		ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
		ti.Placeholder = f.Label
		ti.CharLimit = 256
		ti.Width = recordFormWidth - labelWidth - 8
		ti.SetValue(f.Value)
		inputs[i] = ti
	}

	fm := &RecordFormModal{
		state:  state,
		title:  state.DialogTitle(),
		fields: fields,
		inputs: inputs,
	}
	fm.focusField()
	return fm, nil
}

func (f *RecordFormModal) ID() string { return "record-form" }

// Title returns the dialog title.
func (f *RecordFormModal) Title() string { return f.title }

// Values returns the current input values keyed by field name.
func (f *RecordFormModal) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		values[field.Name] = f.inputs[i].Value()
	}
	return values
}

func (f *RecordFormModal) focusField() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *RecordFormModal) moveFocus(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.focusField()
}

func (f *RecordFormModal) submit() (bool, tea.Cmd) {
	f.state.Submit(f.Values())
	return true, actionMsg(ActionMsg{Action: ActionFocusTable})
}

func (f *RecordFormModal) dismiss() (bool, tea.Cmd) {
	f.state.Dismiss()
	return true, actionMsg(ActionMsg{Action: ActionFocusTable})
}

func (f *RecordFormModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "escape", "esc":
			return f.dismiss()
		case "ctrl+s":
			return f.submit()
		case "enter":
			if f.focus >= len(f.inputs)-1 {
				return f.submit()
			}
			return false, f.moveFocus(1)
		case "tab", "down":
			return false, f.moveFocus(1)
		case "shift+tab", "up":
			return false, f.moveFocus(-1)
		}
		if len(f.inputs) == 0 {
			return false, nil
		}
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if !f.inside(msg.X, msg.Y) {
				return f.dismiss()
			}
			// Field rows start below the border, title and blank line.
			row := msg.Y - f.boxY - 3
			if row >= 0 && row < len(f.inputs) {
				f.focus = row
				return false, f.focusField()
			}
		}
		return false, nil
	}
	return false, nil
}

func (f *RecordFormModal) inside(x, y int) bool {
	if f.boxW == 0 || f.boxH == 0 {
		return true
	}
	return x >= f.boxX && x < f.boxX+f.boxW && y >= f.boxY && y < f.boxY+f.boxH
}

func (f *RecordFormModal) View(width, height int) string {
	lines := make([]string, 0, len(f.inputs)+4)
	lines = append(lines, lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(f.title))
	lines = append(lines, "")
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "")

	buttons := []string{
		lipgloss.NewStyle().Foreground(ColorBlack).Background(ColorBlue).Padding(0, 1).Render("Save"),
		lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1).Render("esc Cancel"),
	}
	lines = append(lines, strings.Join(buttons, "  "))

	box := lipgloss.NewStyle().
		Width(min(recordFormWidth, max(20, width-4))).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	f.boxW = lipgloss.Width(box)
	f.boxH = lipgloss.Height(box)
	f.boxX = max(0, (width-f.boxW)/2)
	f.boxY = max(0, (height-f.boxH)/2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
