package tui

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tinytelemetry/campus/internal/catalog"
	"github.com/tinytelemetry/campus/internal/dashboard"
	"github.com/tinytelemetry/campus/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slog"
)

type traceLog struct {
	lines []string
}

func (l *traceLog) tracer() dashboard.Tracer {
	return dashboard.TraceFunc(func(msg string, _ ...slog.Attr) {
		l.lines = append(l.lines, msg)
	})
}

func newTestModel(t *testing.T) (*DashboardModel, *traceLog) {
	t.Helper()
	traces := &traceLog{}
	state := dashboard.New(catalog.Default(), traces.tracer())
	m := NewDashboardModel(state, false, "catalog")
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	return m, traces
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *DashboardModel, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestNewDashboardModel_Defaults(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	if !m.sidebarVisible {
		t.Fatal("expected sidebar to be visible by default")
	}
	if m.activeFocus != FocusTable {
		t.Fatalf("expected table focus, got %v", m.activeFocus)
	}
	if got := m.state.Active(); got != model.SectionStudents {
		t.Fatalf("expected students to be active, got %s", got)
	}
	if got := len(m.tables); got != len(model.AllSections()) {
		t.Fatalf("tables = %d, want %d", got, len(model.AllSections()))
	}
	for section, st := range m.tables {
		if st.err != nil {
			t.Errorf("%s: unexpected error %v", section, st.err)
		}
		if len(st.rowIDs) != 2 {
			t.Errorf("%s: rows = %d, want 2", section, len(st.rowIDs))
		}
	}
}

func TestView_RendersOnlyActiveTable(t *testing.T) {
	t.Parallel()

	// A value that only appears in each section's table.
	marker := map[model.Section]string{
		model.SectionStudents:  "john@example.com",
		model.SectionCourses:   "4 years",
		model.SectionFaculty:   "Dr. Alice Johnson",
		model.SectionLibrary:   "Thomas H. Cormen",
		model.SectionAdmin:     "System Administrator",
		model.SectionInventory: "Laptops",
	}

	m, _ := newTestModel(t)
	for i, section := range model.AllSections() {
		press(m, keyRunes(strconv.Itoa(i+1)))
		if got := m.state.Active(); got != section {
			t.Fatalf("active = %s, want %s", got, section)
		}

		view := m.View()
		for _, want := range []string{sidebarTitle, "Actions", actionsCell, marker[section]} {
			if !strings.Contains(view, want) {
				t.Errorf("%s view missing %q", section, want)
			}
		}
		for other, text := range marker {
			if other != section && strings.Contains(view, text) {
				t.Errorf("%s view also renders the %s table (%q)", section, other, text)
			}
		}
	}
}

func TestSectionKeys_Wrap(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)

	press(m, keyRunes("]"))
	if got := m.state.Active(); got != model.SectionCourses {
		t.Fatalf("after ] active = %s, want courses", got)
	}
	press(m, keyRunes("["), tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.state.Active(); got != model.SectionInventory {
		t.Fatalf("after wrap active = %s, want inventory", got)
	}
	if got := m.sidebarCursor; got != len(model.AllSections())-1 {
		t.Fatalf("sidebar cursor = %d, want last", got)
	}
}

func TestSidebarFocus_MovesSection(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeFocus != FocusSidebar {
		t.Fatalf("focus = %v, want sidebar", m.activeFocus)
	}

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.state.Active(); got != model.SectionFaculty {
		t.Fatalf("active = %s, want faculty", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.activeFocus != FocusTable {
		t.Fatalf("enter on sidebar should focus the table, got %v", m.activeFocus)
	}
	if m.HasModal() {
		t.Fatal("enter on sidebar must not open the dialog")
	}
}

func TestSidebarClick_SelectsSection(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	// Border row, title, blank line, then one row per section.
	y := 1 + 2 + sectionIndex(model.SectionLibrary)
	press(m, tea.MouseMsg{X: 3, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if got := m.state.Active(); got != model.SectionLibrary {
		t.Fatalf("active = %s, want library", got)
	}
}

func TestTabClick_SelectsSection(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	x := sidebarWidth
	for _, tab := range m.renderedTabs() {
		if tab.section == model.SectionAdmin {
			break
		}
		x += len(tab.section.Label()) + 2
	}
	press(m, tea.MouseMsg{X: x + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if got := m.state.Active(); got != model.SectionAdmin {
		t.Fatalf("active = %s, want admin", got)
	}
}

func TestDelete_TracesWithoutRemoving(t *testing.T) {
	t.Parallel()

	m, traces := newTestModel(t)
	press(m, keyRunes("4"), tea.KeyMsg{Type: tea.KeyDown}, keyRunes("d"))

	if len(traces.lines) != 1 || traces.lines[0] != "Deleting item with id 2 from library" {
		t.Fatalf("traces = %q", traces.lines)
	}
	if got := len(m.activeTable().rowIDs); got != 2 {
		t.Fatalf("rows after delete = %d, want 2", got)
	}
	if m.HasModal() {
		t.Fatal("delete must not open a modal")
	}
	if !strings.Contains(m.renderStatusLine(), "Deleting item with id 2 from library") {
		t.Error("status line should show the last trace")
	}
}

func TestFilter_NarrowsAndClears(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	press(m, keyRunes("/"))
	if !m.filterActive {
		t.Fatal("expected filter input to be active")
	}
	for _, r := range "smith" {
		press(m, keyRunes(string(r)))
	}
	if got := m.activeTable().rowIDs; len(got) != 1 || got[0] != 2 {
		t.Fatalf("filtered rows = %v, want [2]", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterActive {
		t.Fatal("enter should leave filter input")
	}
	if m.filterTerm != "smith" {
		t.Fatalf("filter term = %q, want kept", m.filterTerm)
	}
	if id, ok := m.selectedRecordID(); !ok || id != 2 {
		t.Fatalf("selected = %d/%v, want 2", id, ok)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterTerm != "" {
		t.Fatalf("esc should clear the filter, got %q", m.filterTerm)
	}
	if got := len(m.activeTable().rowIDs); got != 2 {
		t.Fatalf("rows after clear = %d, want 2", got)
	}
}

func TestHelpModal_PushAndClose(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	press(m, keyRunes("?"))
	if _, ok := m.TopModal().(*HelpModal); !ok {
		t.Fatalf("top modal = %T, want *HelpModal", m.TopModal())
	}
	if !strings.Contains(m.View(), "add new") {
		t.Error("help should list key bindings")
	}
	press(m, keyRunes("?"))
	if m.HasModal() {
		t.Fatal("? should close help")
	}
}

func TestToggleSidebar_ReturnsFocusToTable(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("a"))
	if m.sidebarVisible {
		t.Fatal("expected sidebar hidden")
	}
	if m.activeFocus != FocusTable {
		t.Fatalf("focus = %v, want table", m.activeFocus)
	}
	if strings.Contains(m.View(), sidebarTitle) {
		t.Error("hidden sidebar still rendered")
	}
}

func TestSidebarFocus_EditKeyOpensDialog(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("e"))

	form, ok := m.TopModal().(*RecordFormModal)
	if !ok {
		t.Fatalf("e with sidebar focus: top modal = %T, want *RecordFormModal", m.TopModal())
	}
	if got := form.Title(); got != "Edit student" {
		t.Fatalf("title = %q, want %q", got, "Edit student")
	}
}

// labelAt returns the screen position of label on the rendered line that
// also contains rowText.
func labelAt(t *testing.T, view, rowText, label string) (x, y int) {
	t.Helper()
	for y, line := range strings.Split(view, "\n") {
		if !strings.Contains(line, rowText) {
			continue
		}
		if idx := strings.Index(line, label); idx >= 0 {
			return lipgloss.Width(line[:idx]), y
		}
	}
	t.Fatalf("no line with %q and %q in view", rowText, label)
	return 0, 0
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestActionsCellClick_Delete(t *testing.T) {
	t.Parallel()

	m, traces := newTestModel(t)
	x, y := labelAt(t, m.View(), "Jane Smith", deleteLabel)
	press(m, click(x+1, y))

	if len(traces.lines) != 1 || traces.lines[0] != "Deleting item with id 2 from students" {
		t.Fatalf("traces = %q", traces.lines)
	}
	if m.HasModal() {
		t.Fatal("delete must not open a modal")
	}
}

func TestActionsCellClick_Edit(t *testing.T) {
	t.Parallel()

	m, traces := newTestModel(t)
	press(m, keyRunes("4"))
	x, y := labelAt(t, m.View(), "Data Structures and Algorithms", editLabel)
	press(m, click(x, y))

	form, ok := m.TopModal().(*RecordFormModal)
	if !ok {
		t.Fatalf("top modal = %T, want *RecordFormModal", m.TopModal())
	}
	if got := form.Values()["author"]; got != "Michael T. Goodrich" {
		t.Fatalf("author = %q, want prefilled from record 2", got)
	}
	if len(traces.lines) != 0 {
		t.Fatalf("edit click traced %q", traces.lines)
	}
}

func TestRowClick_OutsideActionsOnlySelects(t *testing.T) {
	t.Parallel()

	m, traces := newTestModel(t)
	x, y := labelAt(t, m.View(), "Jane Smith", "Jane Smith")
	press(m, click(x, y))

	if id, ok := m.selectedRecordID(); !ok || id != 2 {
		t.Fatalf("selected = %d/%v, want 2", id, ok)
	}
	if m.HasModal() || len(traces.lines) != 0 {
		t.Fatalf("plain row click should not act: modal=%v traces=%q", m.HasModal(), traces.lines)
	}
}
