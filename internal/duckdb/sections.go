package duckdb

import (
	"database/sql"
	"fmt"

	"github.com/tinytelemetry/campus/internal/model"
)

// Seeded reports whether any section schema has been stored.
func (s *Store) Seeded() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM section_fields").Scan(&n); err != nil {
		return false, fmt.Errorf("counting section fields: %w", err)
	}
	return n > 0, nil
}

// Seed copies every section's schema and records from src. A store that
// already holds sections is left untouched and Seed reports false.
func (s *Store) Seed(src model.DataSource, sourceName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM section_fields").Scan(&existing); err != nil {
		return false, fmt.Errorf("counting section fields: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	fieldStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO section_fields (section, position, name, label, kind) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return false, fmt.Errorf("prepare fields: %w", err)
	}
	defer fieldStmt.Close()

	valueStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO section_records (section, record_id, field, text_value, num_value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return false, fmt.Errorf("prepare records: %w", err)
	}
	defer valueStmt.Close()

	total := 0
	for _, section := range model.AllSections() {
		schema, err := src.Schema(section)
		if err != nil {
			return false, fmt.Errorf("reading %s schema: %w", section, err)
		}
		records, err := src.Records(section)
		if err != nil {
			return false, fmt.Errorf("reading %s records: %w", section, err)
		}

		for i, f := range schema.Fields {
			if _, err := fieldStmt.ExecContext(ctx, string(section), i, f.Name, f.Label, f.Kind.String()); err != nil {
				return false, fmt.Errorf("inserting %s.%s: %w", section, f.Name, err)
			}
		}

		for _, r := range records {
			for _, f := range schema.Fields {
				v := r.Get(f.Name)
				var text sql.NullString
				var num sql.NullFloat64
				if v.Kind() == model.KindNumber {
					num = sql.NullFloat64{Float64: v.Float(), Valid: true}
				} else {
					text = sql.NullString{String: v.String(), Valid: true}
				}
				if _, err := valueStmt.ExecContext(ctx, string(section), r.ID, f.Name, text, num); err != nil {
					return false, fmt.Errorf("inserting %s#%d.%s: %w", section, r.ID, f.Name, err)
				}
			}
		}
		total += len(records)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO seed_log (source, records) VALUES (?, ?)", sourceName, total); err != nil {
		return false, fmt.Errorf("recording seed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}

// Schema returns the stored field list of section in declaration order.
func (s *Store) Schema(section model.Section) (model.Schema, error) {
	if !section.Valid() {
		return model.Schema{}, fmt.Errorf("%w: %q", model.ErrUnknownSection, section)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, label, kind FROM section_fields WHERE section = ? ORDER BY position", string(section))
	if err != nil {
		return model.Schema{}, fmt.Errorf("querying %s schema: %w", section, err)
	}
	defer rows.Close()

	schema := model.Schema{Section: section}
	for rows.Next() {
		var f model.Field
		var kind string
		if err := rows.Scan(&f.Name, &f.Label, &kind); err != nil {
			return model.Schema{}, fmt.Errorf("scanning %s schema: %w", section, err)
		}
		if f.Kind, err = model.ParseValueKind(kind); err != nil {
			return model.Schema{}, fmt.Errorf("%s.%s: %w", section, f.Name, err)
		}
		schema.Fields = append(schema.Fields, f)
	}
	if err := rows.Err(); err != nil {
		return model.Schema{}, err
	}
	if len(schema.Fields) == 0 {
		return model.Schema{}, fmt.Errorf("%s schema: %w", section, model.ErrNotFound)
	}
	return schema, nil
}

// Records returns the records of section ordered by id.
func (s *Store) Records(section model.Section) ([]model.Record, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownSection, section)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, field, text_value, num_value
		FROM section_records
		WHERE section = ?
		ORDER BY record_id, field`, string(section))
	if err != nil {
		return nil, fmt.Errorf("querying %s records: %w", section, err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var (
			id    int
			field string
			text  sql.NullString
			num   sql.NullFloat64
		)
		if err := rows.Scan(&id, &field, &text, &num); err != nil {
			return nil, fmt.Errorf("scanning %s records: %w", section, err)
		}

		if len(records) == 0 || records[len(records)-1].ID != id {
			records = append(records, model.Record{ID: id, Values: make(map[string]model.Value)})
		}
		rec := &records[len(records)-1]
		if num.Valid {
			rec.Values[field] = model.Number(num.Float64)
		} else {
			rec.Values[field] = model.Text(text.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// RecordCounts returns the number of records stored per section.
func (s *Store) RecordCounts() (map[model.Section]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT section, COUNT(DISTINCT record_id) FROM section_records GROUP BY section")
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Section]int)
	for rows.Next() {
		var section string
		var n int
		if err := rows.Scan(&section, &n); err != nil {
			return nil, err
		}
		counts[model.Section(section)] = n
	}
	return counts, rows.Err()
}
