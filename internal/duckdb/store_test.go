package duckdb

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tinytelemetry/campus/internal/catalog"
	"github.com/tinytelemetry/campus/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedTestStore(t *testing.T, store *Store) {
	t.Helper()
	ok, err := store.Seed(catalog.Default(), "catalog")
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first Seed to insert rows")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	seeded, err := store.Seeded()
	if err != nil {
		t.Fatalf("Seeded failed: %v", err)
	}
	if seeded {
		t.Fatal("fresh store reports seeded")
	}

	seedTestStore(t, store)

	ok, err := store.Seed(catalog.Default(), "catalog")
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if ok {
		t.Error("second Seed should be a no-op")
	}

	counts, err := store.RecordCounts()
	if err != nil {
		t.Fatalf("RecordCounts failed: %v", err)
	}
	for _, s := range model.AllSections() {
		if counts[s] != 2 {
			t.Errorf("%s: expected 2 records, got %d", s, counts[s])
		}
	}
}

func TestSchemaMatchesCatalog(t *testing.T) {
	store := newTestStore(t)
	seedTestStore(t, store)

	for _, s := range model.AllSections() {
		want, err := catalog.Default().Schema(s)
		if err != nil {
			t.Fatalf("catalog schema %s: %v", s, err)
		}
		got, err := store.Schema(s)
		if err != nil {
			t.Fatalf("store schema %s: %v", s, err)
		}
		if len(got.Fields) != len(want.Fields) {
			t.Fatalf("%s: expected %d fields, got %d", s, len(want.Fields), len(got.Fields))
		}
		for i := range want.Fields {
			if got.Fields[i] != want.Fields[i] {
				t.Errorf("%s field %d: expected %+v, got %+v", s, i, want.Fields[i], got.Fields[i])
			}
		}
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedTestStore(t, store)

	records, err := store.Records(model.SectionInventory)
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != 1 || records[1].ID != 2 {
		t.Errorf("expected ids 1,2, got %d,%d", records[0].ID, records[1].ID)
	}

	qty := records[0].Get("quantity")
	if qty.Kind() != model.KindNumber {
		t.Errorf("expected quantity to stay numeric, got %s", qty.Kind())
	}
	if qty.String() != "50" {
		t.Errorf("expected quantity 50, got %q", qty.String())
	}
	if got := records[1].Get("item").String(); got != "Projectors" {
		t.Errorf("expected item Projectors, got %q", got)
	}
}

func TestUnknownSection(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Schema("gym"); !errors.Is(err, model.ErrUnknownSection) {
		t.Errorf("Schema: expected ErrUnknownSection, got %v", err)
	}
	if _, err := store.Records("gym"); !errors.Is(err, model.ErrUnknownSection) {
		t.Errorf("Records: expected ErrUnknownSection, got %v", err)
	}
}

func TestSchemaBeforeSeed(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Schema(model.SectionStudents); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	records, err := store.Records(model.SectionStudents)
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "campus.duckdb")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	seedTestStore(t, store)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if reopened.Path() != path {
		t.Errorf("expected path %q, got %q", path, reopened.Path())
	}
	seeded, err := reopened.Seeded()
	if err != nil {
		t.Fatalf("Seeded failed: %v", err)
	}
	if !seeded {
		t.Error("expected reopened store to keep seeded data")
	}
}

func TestConcurrentSeedInsertsOnce(t *testing.T) {
	store := newTestStore(t)

	const workers = 4
	var wg sync.WaitGroup
	results := make([]bool, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.Seed(catalog.Default(), "catalog")
		}(i)
	}
	wg.Wait()

	inserted := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("Seed %d failed: %v", i, errs[i])
		}
		if results[i] {
			inserted++
		}
	}
	if inserted != 1 {
		t.Fatalf("expected exactly one Seed to insert rows, got %d", inserted)
	}

	counts, err := store.RecordCounts()
	if err != nil {
		t.Fatalf("RecordCounts failed: %v", err)
	}
	if counts[model.SectionStudents] != 2 {
		t.Errorf("expected 2 students, got %d", counts[model.SectionStudents])
	}
}

func TestSchemaVersionIsCurrent(t *testing.T) {
	store := newTestStore(t)

	st, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if st.Pending != 0 || st.Current != st.Latest {
		t.Errorf("expected migrations applied, got %+v", st)
	}
}
