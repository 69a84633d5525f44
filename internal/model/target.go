package model

import "fmt"

// EditTarget says what the record dialog is working on: a new record, or an
// existing record of a section.
type EditTarget struct {
	edit    bool
	section Section
	id      int
}

// CreateTarget targets a record that does not exist yet.
func CreateTarget() EditTarget { return EditTarget{} }

// EditTargetFor targets an existing record.
func EditTargetFor(section Section, id int) EditTarget {
	return EditTarget{edit: true, section: section, id: id}
}

func (t EditTarget) IsCreate() bool { return !t.edit }

// Section is empty for create targets.
func (t EditTarget) Section() Section { return t.section }

// RecordID is 0 for create targets.
func (t EditTarget) RecordID() int { return t.id }

func (t EditTarget) String() string {
	if !t.edit {
		return "create"
	}
	return fmt.Sprintf("edit(%s#%d)", t.section, t.id)
}
