package model

// DataSource supplies section schemas and records to the dashboard.
// Implementations return copies; callers never mutate the source.
type DataSource interface {
	Schema(section Section) (Schema, error)
	Records(section Section) ([]Record, error)
}
