package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/storefront-core/internal/infrastructure/database"
	"github.com/nerrad567/storefront-core/migrations"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "catalog-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	return db.DB
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	c := &Category{Name: "  shoes ", Label: "Shoes"}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(c.ID, "cat-") {
		t.Errorf("ID = %q, want cat- prefix", c.ID)
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "shoes" || got.Label != "Shoes" {
		t.Errorf("category = %+v, want trimmed name", got)
	}
}

func TestSQLiteRepository_CreateValidation(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))

	tests := []Category{
		{Name: "", Label: "Shoes"},
		{Name: "shoes", Label: "  "},
		{},
	}
	for _, c := range tests {
		if err := repo.Create(context.Background(), &c); !errors.Is(err, ErrMissingFields) {
			t.Errorf("Create(%+v) error = %v, want ErrMissingFields", c, err)
		}
	}
}

func TestSQLiteRepository_NameUniqueIgnoringCase(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &Category{Name: "hats", Label: "Hats"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &Category{Name: "HATS", Label: "More hats"}); !errors.Is(err, ErrCategoryExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrCategoryExists", err)
	}

	other := &Category{Name: "bags", Label: "Bags"}
	_ = repo.Create(ctx, other)
	if _, err := repo.Update(ctx, other.ID, Patch{Name: "Hats"}); !errors.Is(err, ErrCategoryExists) {
		t.Errorf("Update(rename to existing) error = %v, want ErrCategoryExists", err)
	}
}

func TestSQLiteRepository_UpdateKeepsBlankFields(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	c := &Category{Name: "coats", Label: "Coats"}
	_ = repo.Create(ctx, c)

	tests := []struct {
		name      string
		patch     Patch
		wantName  string
		wantLabel string
	}{
		{"label only", Patch{Label: "Winter coats"}, "coats", "Winter coats"},
		{"name only", Patch{Name: "outerwear"}, "outerwear", "Winter coats"},
		{"all blank", Patch{Name: " ", Label: ""}, "outerwear", "Winter coats"},
		{"both", Patch{Name: "jackets", Label: "Jackets"}, "jackets", "Jackets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Update(ctx, c.ID, tt.patch)
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if got.Name != tt.wantName || got.Label != tt.wantLabel {
				t.Errorf("Update() = %q/%q, want %q/%q", got.Name, got.Label, tt.wantName, tt.wantLabel)
			}
			stored, _ := repo.GetByID(ctx, c.ID)
			if stored.Name != tt.wantName || stored.Label != tt.wantLabel {
				t.Errorf("stored = %q/%q", stored.Name, stored.Label)
			}
		})
	}
}

func TestSQLiteRepository_ListAndDelete(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List() on empty = %v, %v", empty, err)
	}

	b := &Category{Name: "boots", Label: "Boots"}
	_ = repo.Create(ctx, &Category{Name: "aprons", Label: "Aprons"})
	_ = repo.Create(ctx, b)

	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].Name != "aprons" {
		t.Fatalf("List() = %+v, want two sorted by name", list)
	}

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, b.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("second Delete() error = %v, want ErrCategoryNotFound", err)
	}
	if _, err := repo.Update(ctx, b.ID, Patch{Label: "x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("Update(deleted) error = %v, want ErrCategoryNotFound", err)
	}
}
