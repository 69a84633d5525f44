package tui

import (
	"strings"

	"github.com/tinytelemetry/campus/internal/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// actionsCell is shown in the Actions column of every row. Clicking a
// label triggers its action.
const (
	editLabel   = "[e]dit"
	deleteLabel = "[d]elete"
	actionsCell = editLabel + " " + deleteLabel
)

type rowAction int

const (
	rowActionNone rowAction = iota
	rowActionEdit
	rowActionDelete
)

const minColumnWidth = 6

// loadTables (re)builds every section table from the data source, applying
// the current row filter.
func (m *DashboardModel) loadTables() {
	for _, section := range model.AllSections() {
		m.tables[section] = m.buildTable(section)
	}
	m.resizeTables()
	m.syncTableFocus()
}

func (m *DashboardModel) buildTable(section model.Section) *sectionTable {
	st := &sectionTable{}

	header, err := m.state.TableHeader(section)
	if err != nil {
		st.err = err
		st.table = table.New()
		return st
	}
	rows, err := m.state.TableRows(section)
	if err != nil {
		st.err = err
		st.table = table.New()
		return st
	}
	st.total = len(rows)

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(minColumnWidth, lipgloss.Width(h))
	}
	widths[len(widths)-1] = max(widths[len(widths)-1], lipgloss.Width(actionsCell))

	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = strings.Join(r.Cells, " ")
	}
	keep := matchRows(m.filterTerm, texts)

	tableRows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		if !keep[i] {
			continue
		}
		cells := make(table.Row, 0, len(r.Cells)+1)
		for j, c := range r.Cells {
			widths[j] = max(widths[j], lipgloss.Width(c))
			cells = append(cells, c)
		}
		tableRows = append(tableRows, append(cells, actionsCell))
		st.rowIDs = append(st.rowIDs, r.ID)
	}

	columns := make([]table.Column, len(header))
	for i, h := range header {
		columns[i] = table.Column{Title: h, Width: widths[i] + 1}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(max(1, len(tableRows)+1)),
	)
	t.SetStyles(tableStyles())
	st.table = t
	return st
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorWhite).
		Background(ColorNavy).
		Bold(false)
	return s
}

// matchRows reports which rows match term. An empty term keeps every row.
func matchRows(term string, texts []string) []bool {
	keep := make([]bool, len(texts))
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	for _, rank := range fuzzy.RankFindNormalizedFold(trimmed, texts) {
		keep[rank.OriginalIndex] = true
	}
	return keep
}

// actionAt maps an x offset within a rendered row to the action label under
// it. Every cell carries one column of padding on each side.
func (st *sectionTable) actionAt(x int) rowAction {
	cols := st.table.Columns()
	if len(cols) == 0 {
		return rowActionNone
	}
	start := 0
	for _, c := range cols[:len(cols)-1] {
		start += c.Width + 2
	}
	rel := x - start - 1
	switch {
	case rel >= 0 && rel < lipgloss.Width(editLabel):
		return rowActionEdit
	case rel > lipgloss.Width(editLabel) && rel < lipgloss.Width(actionsCell):
		return rowActionDelete
	}
	return rowActionNone
}

// resizeTables fits every table to the content area.
func (m *DashboardModel) resizeTables() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, _, tableH := m.layoutHeights()
	for _, st := range m.tables {
		st.table.SetWidth(m.contentWidth() - 4)
		st.table.SetHeight(max(2, tableH-2))
	}
}

// syncTableFocus focuses the active table when the table area has focus.
func (m *DashboardModel) syncTableFocus() {
	for section, st := range m.tables {
		if section == m.state.Active() && m.activeFocus == FocusTable {
			st.table.Focus()
		} else {
			st.table.Blur()
		}
	}
}

// selectedRecordID returns the id of the highlighted row of the active table.
func (m *DashboardModel) selectedRecordID() (int, bool) {
	st := m.activeTable()
	if st == nil || len(st.rowIDs) == 0 {
		return 0, false
	}
	cursor := st.table.Cursor()
	if cursor < 0 || cursor >= len(st.rowIDs) {
		return 0, false
	}
	return st.rowIDs[cursor], true
}

// moveRow moves the cursor of the active table.
func (m *DashboardModel) moveRow(delta int) {
	st := m.activeTable()
	if st == nil {
		return
	}
	if delta < 0 {
		st.table.MoveUp(-delta)
	} else {
		st.table.MoveDown(delta)
	}
}

// applyFilter rebuilds the tables with filterTerm, keeping the active
// cursor in range.
func (m *DashboardModel) applyFilter(term string) {
	m.filterTerm = term
	m.loadTables()
	if st := m.activeTable(); st != nil && len(st.rowIDs) > 0 {
		st.table.SetCursor(min(st.table.Cursor(), len(st.rowIDs)-1))
	}
}
