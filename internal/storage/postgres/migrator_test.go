package postgres

import "testing"

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}

	var prev int64
	for _, m := range migrations {
		if m.Version <= prev {
			t.Fatalf("migrations must be sorted by version: %d after %d", m.Version, prev)
		}
		if m.Name == "" {
			t.Fatalf("migration %d has empty name", m.Version)
		}
		if m.SQL == "" {
			t.Fatalf("migration %d_%s is empty", m.Version, m.Name)
		}
		prev = m.Version
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)

	ctx := t.Context()
	if err := store.MigrateUp(ctx); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if version == 0 || count == 0 {
		t.Fatalf("expected applied migrations, got version=%d count=%d", version, count)
	}
}
