package model

import (
	"fmt"
	"strconv"
	"strings"
)

// IDField is the identifier every record carries. It is never part of a schema.
const IDField = "id"

// ValueKind is the type of value a field holds.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

// ParseValueKind maps a config name to a ValueKind. Empty means text.
func ParseValueKind(name string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "string":
		return KindText, nil
	case "number", "int", "float":
		return KindNumber, nil
	default:
		return KindText, fmt.Errorf("unknown value kind %q", name)
	}
}

// Field describes one column of a section.
type Field struct {
	Name  string
	Label string
	Kind  ValueKind
}

// Schema is the ordered field list of a section.
type Schema struct {
	Section Section
	Fields  []Field
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Value is a text or numeric cell value.
type Value struct {
	kind ValueKind
	text string
	num  float64
}

// Text builds a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number builds a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric value, or 0 for text.
func (v Value) Float() float64 { return v.num }

// String renders the raw value the way table cells show it.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// Record is one row of a section.
type Record struct {
	ID     int
	Values map[string]Value
}

// Get returns the value of field, or the zero Value when absent.
func (r Record) Get(field string) Value {
	return r.Values[field]
}

// Clone copies the record so the caller can't reach the source's map.
func (r Record) Clone() Record {
	values := make(map[string]Value, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Record{ID: r.ID, Values: values}
}

// FormatRecord renders a record as "{id: 1, name: John Doe, ...}" in schema order.
func FormatRecord(schema Schema, r Record) string {
	var b strings.Builder
	b.WriteString("{id: ")
	b.WriteString(strconv.Itoa(r.ID))
	for _, f := range schema.Fields {
		fmt.Fprintf(&b, ", %s: %s", f.Name, r.Get(f.Name))
	}
	b.WriteString("}")
	return b.String()
}
