package database

import (
	"context"
	"testing"
	"testing/fstest"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"20260101_000000_create_people.up.sql":   {Data: []byte("CREATE TABLE people (id TEXT PRIMARY KEY);")},
		"20260101_000000_create_people.down.sql": {Data: []byte("DROP TABLE people;")},
		"20260102_000000_create_pets.up.sql":     {Data: []byte("CREATE TABLE pets (id TEXT PRIMARY KEY);")},
		"20260102_000000_create_pets.down.sql":   {Data: []byte("DROP TABLE pets;")},
		"README.md":                              {Data: []byte("ignored")},
	}
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return count == 1
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	fsys := testMigrations()

	if err := db.Migrate(ctx, fsys); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if !tableExists(t, db, "people") || !tableExists(t, db, "pets") {
		t.Fatal("expected both tables to exist after Migrate()")
	}

	applied, pending, err := db.MigrationStatus(ctx, fsys)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("applied = %d, want 2", len(applied))
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}

	if err := db.Migrate(ctx, fsys); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	fsys := testMigrations()

	if err := db.Migrate(ctx, fsys); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx, fsys); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	if tableExists(t, db, "pets") {
		t.Error("pets should be dropped by MigrateDown()")
	}
	if !tableExists(t, db, "people") {
		t.Error("people should survive a single MigrateDown()")
	}

	_, pending, err := db.MigrationStatus(ctx, fsys)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Name != "create_pets" {
		t.Errorf("pending = %+v, want [create_pets]", pending)
	}
}

func TestMigrate_FailureRollsBackOnlyBadMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"20260101_000000_good.up.sql": {Data: []byte("CREATE TABLE good (id TEXT);")},
		"20260102_000000_bad.up.sql":  {Data: []byte("CREATE TABLE ;")},
	}

	if err := db.Migrate(ctx, fsys); err == nil {
		t.Fatal("Migrate() expected error for invalid SQL")
	}
	if !tableExists(t, db, "good") {
		t.Error("earlier migration should remain committed")
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantUp      bool
		wantOK      bool
	}{
		{"20260118_120000_initial_schema.up.sql", "20260118_120000", "initial_schema", true, true},
		{"20260118_120000_initial_schema.down.sql", "20260118_120000", "initial_schema", false, true},
		{"20260118_120000.up.sql", "", "", false, false},
		{"initial.sql", "", "", false, false},
		{"20260118_120000_x.up.txt", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || name != tt.wantName || isUp != tt.wantUp {
				t.Errorf("got (%q, %q, %v), want (%q, %q, %v)",
					version, name, isUp, tt.wantVersion, tt.wantName, tt.wantUp)
			}
		})
	}
}
