// Package catalog holds the static college dataset and loads alternate
// datasets from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/tinytelemetry/campus/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var builtin []byte

type fileFormat struct {
	Sections []sectionDoc `yaml:"sections"`
}

type sectionDoc struct {
	Key     string           `yaml:"key"`
	Fields  []fieldDoc       `yaml:"fields"`
	Records []map[string]any `yaml:"records"`
}

type fieldDoc struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
}

// Dataset is an immutable set of schemas and records for all six sections.
type Dataset struct {
	schemas map[model.Section]model.Schema
	records map[model.Section][]model.Record
}

var defaultDataset = sync.OnceValues(func() (*Dataset, error) {
	return parse(builtin)
})

// Default returns the built-in dataset. It panics if the embedded catalog
// is malformed, which the package tests rule out.
func Default() *Dataset {
	ds, err := defaultDataset()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded dataset: %v", err))
	}
	return ds
}

// Load parses a catalog document.
func Load(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return parse(data)
}

// LoadFile parses the catalog document at path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func parse(data []byte) (*Dataset, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	ds := &Dataset{
		schemas: make(map[model.Section]model.Schema, len(doc.Sections)),
		records: make(map[model.Section][]model.Record, len(doc.Sections)),
	}

	for _, sd := range doc.Sections {
		section, err := model.ParseSection(sd.Key)
		if err != nil {
			return nil, err
		}
		if _, dup := ds.schemas[section]; dup {
			return nil, fmt.Errorf("section %s declared twice", section)
		}

		schema, err := buildSchema(section, sd.Fields)
		if err != nil {
			return nil, err
		}
		records, err := buildRecords(schema, sd.Records)
		if err != nil {
			return nil, err
		}

		ds.schemas[section] = schema
		ds.records[section] = records
	}

	for _, section := range model.AllSections() {
		if _, ok := ds.schemas[section]; !ok {
			return nil, fmt.Errorf("catalog is missing section %s", section)
		}
	}

	return ds, nil
}

func buildSchema(section model.Section, docs []fieldDoc) (model.Schema, error) {
	if len(docs) == 0 {
		return model.Schema{}, fmt.Errorf("section %s has no fields", section)
	}

	schema := model.Schema{Section: section, Fields: make([]model.Field, 0, len(docs))}
	seen := make(map[string]bool, len(docs))
	for _, fd := range docs {
		switch {
		case fd.Name == "":
			return model.Schema{}, fmt.Errorf("section %s: field without a name", section)
		case fd.Name == model.IDField:
			return model.Schema{}, fmt.Errorf("section %s: %q is implicit and cannot be declared", section, model.IDField)
		case seen[fd.Name]:
			return model.Schema{}, fmt.Errorf("section %s: field %s declared twice", section, fd.Name)
		}
		seen[fd.Name] = true

		kind, err := model.ParseValueKind(fd.Kind)
		if err != nil {
			return model.Schema{}, fmt.Errorf("section %s field %s: %w", section, fd.Name, err)
		}
		label := fd.Label
		if label == "" {
			label = model.Capitalize(fd.Name)
		}
		schema.Fields = append(schema.Fields, model.Field{Name: fd.Name, Label: label, Kind: kind})
	}
	return schema, nil
}

func buildRecords(schema model.Schema, docs []map[string]any) ([]model.Record, error) {
	records := make([]model.Record, 0, len(docs))
	ids := make(map[int]bool, len(docs))

	for i, doc := range docs {
		rawID, ok := doc[model.IDField]
		if !ok {
			return nil, fmt.Errorf("section %s record %d: missing id", schema.Section, i)
		}
		id, ok := asInt(rawID)
		if !ok {
			return nil, fmt.Errorf("section %s record %d: id %v is not an integer", schema.Section, i, rawID)
		}
		if ids[id] {
			return nil, fmt.Errorf("section %s: duplicate id %d", schema.Section, id)
		}
		ids[id] = true

		rec := model.Record{ID: id, Values: make(map[string]model.Value, len(schema.Fields))}
		for _, f := range schema.Fields {
			raw, ok := doc[f.Name]
			if !ok {
				return nil, fmt.Errorf("section %s record %d: missing field %s", schema.Section, id, f.Name)
			}
			v, err := toValue(f, raw)
			if err != nil {
				return nil, fmt.Errorf("section %s record %d: %w", schema.Section, id, err)
			}
			rec.Values[f.Name] = v
		}

		if extra := unknownKeys(schema, doc); len(extra) > 0 {
			return nil, fmt.Errorf("section %s record %d: unknown fields %v", schema.Section, id, extra)
		}
		records = append(records, rec)
	}
	return records, nil
}

func toValue(f model.Field, raw any) (model.Value, error) {
	if f.Kind == model.KindNumber {
		switch n := raw.(type) {
		case int:
			return model.Number(float64(n)), nil
		case int64:
			return model.Number(float64(n)), nil
		case uint64:
			return model.Number(float64(n)), nil
		case float64:
			return model.Number(n), nil
		}
		return model.Value{}, &model.ValidationError{Field: f.Name, Reason: fmt.Sprintf("%v is not a number", raw)}
	}
	if raw == nil {
		return model.Text(""), nil
	}
	if s, ok := raw.(string); ok {
		return model.Text(s), nil
	}
	return model.Text(fmt.Sprint(raw)), nil
}

func asInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func unknownKeys(schema model.Schema, doc map[string]any) []string {
	var extra []string
	for k := range doc {
		if k == model.IDField {
			continue
		}
		if _, ok := schema.Field(k); !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

// Schema returns the field list of section.
func (d *Dataset) Schema(section model.Section) (model.Schema, error) {
	schema, ok := d.schemas[section]
	if !ok {
		return model.Schema{}, fmt.Errorf("%w: %q", model.ErrUnknownSection, section)
	}
	schema.Fields = append([]model.Field(nil), schema.Fields...)
	return schema, nil
}

// Records returns copies of the section's records in catalog order.
func (d *Dataset) Records(section model.Section) ([]model.Record, error) {
	records, ok := d.records[section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownSection, section)
	}
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out, nil
}
