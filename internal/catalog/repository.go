package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for category persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, id string, patch Patch) (*Category, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed category repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const categoryColumns = "id, name, label, created_at, updated_at"

// List returns all categories ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a single category.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	return scanCategory(r.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
}

// Create validates and inserts a category. The ID is generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, category *Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if category.ID == "" {
		category.ID = "cat-" + uuid.NewString()
	}

	now := time.Now().UTC().Truncate(time.Second)
	category.CreatedAt = now
	category.UpdatedAt = now
	ts := now.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Label, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCategoryExists
		}
		return fmt.Errorf("inserting category %s: %w", category.ID, err)
	}
	return nil
}

// Update applies patch to the category and returns the stored result.
// A patch with only blank fields returns the category unchanged.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch Patch) (*Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.Apply(patch) {
		return category, nil
	}

	category.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, label = ?, updated_at = ? WHERE id = ?",
		category.Name, category.Label, category.UpdatedAt.Format(time.RFC3339), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("updating category %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 { //nolint:errcheck // always succeeds on SQLite
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Delete removes a category by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 { //nolint:errcheck // always succeeds on SQLite
		return ErrCategoryNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*Category, error) {
	var c Category
	var createdAt, updatedAt string
	if err := s.Scan(&c.ID, &c.Name, &c.Label, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	return &c, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
