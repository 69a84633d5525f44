package main

import (
	"fmt"

	"github.com/tinytelemetry/campus/internal/catalog"
	"github.com/tinytelemetry/campus/internal/duckdb"
	"github.com/tinytelemetry/campus/internal/model"

	"golang.org/x/exp/slog"
)

// openSource builds the configured data source. The duckdb source is seeded
// from the catalog on first use. The returned func releases it.
func openSource(cfg appConfig, log *slog.Logger) (model.DataSource, func(), error) {
	seed := catalog.Default()
	seedName := "builtin"
	if cfg.CatalogPath != "" {
		ds, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading catalog: %w", err)
		}
		seed = ds
		seedName = cfg.CatalogPath
	}

	switch cfg.DataSource {
	case sourceCatalog:
		return seed, func() {}, nil

	case sourceDuckDB:
		store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize DuckDB: %w", err)
		}
		seeded, err := store.Seed(seed, seedName)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("seeding DuckDB: %w", err)
		}
		version, err := store.SchemaVersion()
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("reading DuckDB schema version: %w", err)
		}
		log.Info("duckdb source ready",
			"path", store.Path(),
			"schema", version.Current,
			"seeded", seeded,
			"from", seedName,
		)
		return store, func() { store.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
}
