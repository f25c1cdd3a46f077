package dataset

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSQLiteFixtures_SeedAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteFixtures(filepath.Join(dir, "fixtures", "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	d := Manufacturing()
	n, err := store.Seed(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if n != 32 {
		t.Errorf("seeded %d rows, want 32", n)
	}

	again, err := store.Seed(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if again != 0 {
		t.Errorf("second seed wrote %d rows, want 0", again)
	}

	loaded, err := store.Load(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range d.Tags {
		if !reflect.DeepEqual(loaded.Collections[tag], d.Collections[tag]) {
			t.Errorf("%s: loaded records differ from fixtures", tag)
		}
	}

	count, err := store.CountRecords(ctx, d.Name)
	if err != nil {
		t.Fatal(err)
	}
	if count != 32 {
		t.Errorf("CountRecords = %d, want 32", count)
	}
}

func TestSQLiteFixtures_DeploymentsAreIsolated(t *testing.T) {
	store, err := NewSQLiteFixtures(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, err := store.Seed(ctx, Manufacturing()); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load(ctx, Sales())
	if err != nil {
		t.Fatal(err)
	}
	g := NewMemoryGateway(loaded)
	if got := g.ListByDomain(TagRevenue); len(got) != 0 {
		t.Errorf("unseeded sales deployment returned %d records", len(got))
	}
}
