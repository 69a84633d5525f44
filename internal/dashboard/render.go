package dashboard

import (
	"github.com/tinytelemetry/campus/internal/model"
)

// ActionsLabel heads the trailing column holding edit/delete triggers.
const ActionsLabel = "Actions"

// NavEntry is one sidebar link or tab.
type NavEntry struct {
	Section model.Section `json:"section"`
	Label   string        `json:"label"`
	Active  bool          `json:"active"`
}

// Row is one table row; Cells follow the schema order.
type Row struct {
	ID    int      `json:"id"`
	Cells []string `json:"cells"`
}

// Table is the rendered form of one section.
type Table struct {
	Section model.Section `json:"section"`
	Header  []string      `json:"header"`
	Rows    []Row         `json:"rows"`
}

// FormField is one labelled text input of the record dialog.
type FormField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SidebarEntries lists every section with the active one flagged.
func (s *State) SidebarEntries() []NavEntry {
	sections := model.AllSections()
	entries := make([]NavEntry, len(sections))
	for i, sec := range sections {
		entries[i] = NavEntry{Section: sec, Label: sec.Label(), Active: sec == s.active}
	}
	return entries
}

// Tabs mirrors the sidebar.
func (s *State) Tabs() []NavEntry {
	return s.SidebarEntries()
}

// TableHeader returns the schema labels followed by the actions column.
func (s *State) TableHeader(section model.Section) ([]string, error) {
	schema, err := s.source.Schema(section)
	if err != nil {
		return nil, err
	}
	header := make([]string, 0, len(schema.Fields)+1)
	for _, f := range schema.Fields {
		header = append(header, f.Label)
	}
	return append(header, ActionsLabel), nil
}

// TableRows returns one row per record with raw cell values.
func (s *State) TableRows(section model.Section) ([]Row, error) {
	schema, err := s.source.Schema(section)
	if err != nil {
		return nil, err
	}
	records, err := s.source.Records(section)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, r := range records {
		cells := make([]string, len(schema.Fields))
		for j, f := range schema.Fields {
			cells[j] = r.Get(f.Name).String()
		}
		rows[i] = Row{ID: r.ID, Cells: cells}
	}
	return rows, nil
}

// Table renders header and rows of section.
func (s *State) Table(section model.Section) (Table, error) {
	header, err := s.TableHeader(section)
	if err != nil {
		return Table{}, err
	}
	rows, err := s.TableRows(section)
	if err != nil {
		return Table{}, err
	}
	return Table{Section: section, Header: header, Rows: rows}, nil
}

// DialogTitle is "Edit" or "Create" followed by the naive singular of the
// active section.
func (s *State) DialogTitle() string {
	verb := "Create"
	if s.open && !s.target.IsCreate() {
		verb = "Edit"
	}
	return verb + " " + s.active.Singular()
}

// DialogFields returns one field per schema field of the active section,
// pre-filled in edit mode and empty in create mode.
func (s *State) DialogFields() ([]FormField, error) {
	schema, err := s.source.Schema(s.active)
	if err != nil {
		return nil, err
	}

	editing := s.open && !s.target.IsCreate()
	fields := make([]FormField, len(schema.Fields))
	for i, f := range schema.Fields {
		fields[i] = FormField{Name: f.Name, Label: f.Label}
		if editing {
			fields[i].Value = s.editing.Get(f.Name).String()
		}
	}
	return fields, nil
}
