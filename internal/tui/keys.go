package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	Escape        key.Binding
	ToggleSidebar key.Binding

	// Navigation
	NextFocus   key.Binding
	PrevFocus   key.Binding
	Up          key.Binding
	Down        key.Binding
	Home        key.Binding
	End         key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	JumpSection key.Binding
	Enter       key.Binding

	// Records
	Create key.Binding
	Edit   key.Binding
	Delete key.Binding
	Filter key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "clear/close"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle sidebar"),
		),

		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next area"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev area"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "first row"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "last row"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]/→", "next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[/←", "prev section"),
		),
		JumpSection: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "jump to section"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sidebar: open section"),
		),

		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter rows"),
		),
	}
}

// helpGroups lists bindings for the help modal, grouped by heading.
func (k KeyMap) helpGroups() []helpGroup {
	return []helpGroup{
		{Title: "NAVIGATION", Bindings: []key.Binding{k.NextFocus, k.PrevFocus, k.NextSection, k.PrevSection, k.JumpSection, k.Enter, k.Up, k.Down, k.Home, k.End}},
		{Title: "RECORDS", Bindings: []key.Binding{k.Create, k.Edit, k.Delete, k.Filter}},
		{Title: "GENERAL", Bindings: []key.Binding{k.ToggleSidebar, k.Help, k.Escape, k.Quit, k.ForceQuit}},
	}
}

type helpGroup struct {
	Title    string
	Bindings []key.Binding
}
