// Package dashboard holds the view state of the college dashboard and
// derives everything it renders from a model.DataSource.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/tinytelemetry/campus/internal/model"

	"golang.org/x/exp/slog"
)

// NewItemMarker is traced in place of a record when saving from create mode.
const NewItemMarker = "New Item"

// DialogMode is the record dialog's position in its state machine.
type DialogMode int

const (
	Closed DialogMode = iota
	OpenForCreate
	OpenForEdit
)

func (d DialogMode) String() string {
	switch d {
	case OpenForCreate:
		return "create"
	case OpenForEdit:
		return "edit"
	default:
		return "closed"
	}
}

// State is the dashboard's local view state: the active section and the
// record dialog. It reads from the data source and never writes to it.
type State struct {
	source model.DataSource
	tracer Tracer

	active  model.Section
	open    bool
	target  model.EditTarget
	editing model.Record // snapshot of the record under edit; unset in create mode

	lastTrace string
}

// New creates a State on the first section with the dialog closed.
// A nil tracer discards traces.
func New(source model.DataSource, tracer Tracer) *State {
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &State{
		source: source,
		tracer: tracer,
		active: model.AllSections()[0],
		target: model.CreateTarget(),
	}
}

// Source returns the data source the state renders from.
func (s *State) Source() model.DataSource { return s.source }

func (s *State) Active() model.Section { return s.active }

func (s *State) DialogOpen() bool { return s.open }

// Target is meaningful only while the dialog is open.
func (s *State) Target() model.EditTarget { return s.target }

// LastTrace returns the most recent diagnostic line, or "".
func (s *State) LastTrace() string { return s.lastTrace }

// Mode reports the dialog state machine position.
func (s *State) Mode() DialogMode {
	switch {
	case !s.open:
		return Closed
	case s.target.IsCreate():
		return OpenForCreate
	default:
		return OpenForEdit
	}
}

// SelectSection makes section the active one.
func (s *State) SelectSection(section model.Section) error {
	if !section.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownSection, section)
	}
	s.active = section
	return nil
}

// OpenCreate opens the dialog for a new record of the active section.
func (s *State) OpenCreate() {
	s.target = model.CreateTarget()
	s.editing = model.Record{}
	s.open = true
}

// OpenEdit opens the dialog pre-filled from rec.
func (s *State) OpenEdit(rec model.Record) {
	s.target = model.EditTargetFor(s.active, rec.ID)
	s.editing = rec.Clone()
	s.open = true
}

// OpenEditByID opens the dialog for the active section's record with id.
func (s *State) OpenEditByID(id int) error {
	rec, err := s.Record(s.active, id)
	if err != nil {
		return err
	}
	s.OpenEdit(rec)
	return nil
}

// RequestDelete traces the delete of id from the active section. Nothing is
// removed from the data source.
func (s *State) RequestDelete(id int) {
	s.trace(fmt.Sprintf("Deleting item with id %d from %s", id, s.active),
		slog.String("section", string(s.active)),
		slog.Int("id", id),
	)
}

// Submit traces the record being saved and closes the dialog. The submitted
// values are not merged into the data source. It reports false when the
// dialog was not open.
func (s *State) Submit(values map[string]string) bool {
	if !s.open {
		return false
	}

	payload := NewItemMarker
	attrs := []slog.Attr{slog.String("section", string(s.active)), slog.Int("fields", len(values))}
	if !s.target.IsCreate() {
		schema, err := s.source.Schema(s.target.Section())
		if err == nil {
			payload = model.FormatRecord(schema, s.editing)
		} else {
			payload = s.target.String()
		}
		attrs = append(attrs, slog.Int("id", s.target.RecordID()))
	}

	s.trace("Saving data: "+payload, attrs...)
	s.close()
	return true
}

// Dismiss closes the dialog without saving.
func (s *State) Dismiss() {
	s.close()
}

func (s *State) close() {
	s.open = false
	s.target = model.CreateTarget()
	s.editing = model.Record{}
}

func (s *State) trace(msg string, attrs ...slog.Attr) {
	s.lastTrace = msg
	s.tracer.Trace(msg, attrs...)
}

// Record finds a record of section by id.
func (s *State) Record(section model.Section, id int) (model.Record, error) {
	records, err := s.source.Records(section)
	if err != nil {
		return model.Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Record{}, fmt.Errorf("%s record %d: %w", section, id, model.ErrNotFound)
}

// IsNotFound reports whether err means a section or record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrUnknownSection)
}
