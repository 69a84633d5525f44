package tui

import (
	"github.com/tinytelemetry/campus/internal/dashboard"
	"github.com/tinytelemetry/campus/internal/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FocusArea is the part of the dashboard receiving navigation keys.
type FocusArea int

const (
	FocusSidebar FocusArea = iota // section sidebar
	FocusTable                    // active section table
	FocusFilter                   // row filter bar
)

// FilterState holds the row filter input.
type FilterState struct {
	filterInput  textinput.Model
	filterActive bool   // input has focus
	filterTerm   string // applied term, kept after the input closes
}

// SidebarState holds section sidebar state.
type SidebarState struct {
	sidebarCursor  int
	sidebarVisible bool // toggled with 'a'
}

// ModalStackState holds the modal stack.
type ModalStackState struct {
	modalStack []Modal
}

// NavigationState holds keyboard focus.
type NavigationState struct {
	activeFocus FocusArea
}

// sectionTable is the rendered table of one section. rowIDs maps visible
// rows back to record ids after filtering.
type sectionTable struct {
	table  table.Model
	rowIDs []int
	total  int
	err    error
}

// DashboardModel is the Bubble Tea model of the college dashboard.
// Sub-state is organized into embedded structs for readability.
type DashboardModel struct {
	FilterState
	SidebarState
	ModalStackState
	NavigationState

	width  int
	height int

	keys  KeyMap
	state *dashboard.State

	// One table per section; only the active one is rendered.
	tables map[model.Section]*sectionTable

	reverseScrollWheel bool
	dataSource         string // shown in the status bar

	// Last data source error for status line display.
	lastError string

	inlineHandlers []inlineHandlerEntry
}

// NewDashboardModel creates a dashboard over state. dataSource names the
// backing store for the status bar.
func NewDashboardModel(state *dashboard.State, reverseScrollWheel bool, dataSource string) *DashboardModel {
	filterInput := textinput.New()
	filterInput.Placeholder = "Filter rows (fuzzy)..."
	filterInput.CharLimit = 200

	m := &DashboardModel{
		FilterState: FilterState{
			filterInput: filterInput,
		},
		SidebarState: SidebarState{
			sidebarVisible: true,
		},
		NavigationState: NavigationState{
			activeFocus: FocusTable,
		},
		keys:               DefaultKeyMap(),
		state:              state,
		tables:             make(map[model.Section]*sectionTable, len(model.AllSections())),
		reverseScrollWheel: reverseScrollWheel,
		dataSource:         dataSource,
	}

	m.sidebarCursor = sectionIndex(state.Active())
	m.loadTables()

	m.inlineHandlers = []inlineHandlerEntry{
		{isActive: func(m *DashboardModel) bool { return m.filterActive }, handler: filterInputHandler{}},
	}

	return m
}

// State exposes the dashboard view state.
func (m *DashboardModel) State() *dashboard.State {
	return m.state
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return nil
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *DashboardModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *DashboardModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *DashboardModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *DashboardModel) HasModal() bool {
	return len(m.modalStack) > 0
}

func (m *DashboardModel) modalContext() ModalContext {
	return ModalContext{ReverseScrollWheel: m.reverseScrollWheel}
}

// activeTable returns the table of the active section.
func (m *DashboardModel) activeTable() *sectionTable {
	return m.tables[m.state.Active()]
}

// selectSection switches the active section and keeps the sidebar cursor on it.
func (m *DashboardModel) selectSection(section model.Section) {
	if err := m.state.SelectSection(section); err != nil {
		return
	}
	m.sidebarCursor = sectionIndex(section)
	m.syncTableFocus()
}

func (m *DashboardModel) stepSection(delta int) {
	sections := model.AllSections()
	idx := (sectionIndex(m.state.Active()) + delta + len(sections)) % len(sections)
	m.selectSection(sections[idx])
}

func sectionIndex(section model.Section) int {
	for i, s := range model.AllSections() {
		if s == section {
			return i
		}
	}
	return 0
}

// DashboardPage adapts DashboardModel to the Page interface.
type DashboardPage struct {
	Model *DashboardModel
}

// NewDashboardPage wraps a DashboardModel as a Page.
func NewDashboardPage(m *DashboardModel) *DashboardPage {
	return &DashboardPage{Model: m}
}

func (p *DashboardPage) ID() string { return "dashboard" }

func (p *DashboardPage) Init() tea.Cmd {
	return p.Model.Init()
}

func (p *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	_, cmd := p.Model.Update(msg)
	return cmd, nil
}

func (p *DashboardPage) View(width, height int) string {
	p.Model.width = width
	p.Model.height = height
	return p.Model.View()
}
