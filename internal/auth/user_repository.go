package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository is the account directory's persistence contract.
type UserRepository interface {
	AccountDirectory
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRoles(ctx context.Context, roles RoleSet) ([]User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SQLiteUserRepository implements UserRepository using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

// Create inserts a new account. The ID is generated if empty and the role
// defaults to member. Emails are unique case-insensitively.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = "usr-" + uuid.NewString()
	}
	if user.Role == "" {
		user.Role = RoleMember
	}
	if !IsValidRole(user.Role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, user.Role)
	}
	user.Email = strings.TrimSpace(user.Email)

	now := time.Now().UTC().Truncate(time.Second)
	user.CreatedAt = now
	user.UpdatedAt = now
	ts := now.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID. Returns ErrUserNotFound on a miss.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return scanUserFrom(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetByEmail retrieves an account by email, ignoring case.
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUserFrom(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? COLLATE NOCASE", strings.TrimSpace(email)))
}

// ListByRoles returns accounts holding any of roles, oldest first.
func (r *SQLiteUserRepository) ListByRoles(ctx context.Context, roles RoleSet) ([]User, error) {
	users := []User{}
	if len(roles) == 0 {
		return users, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roles)), ",")
	args := make([]any, len(roles))
	for i, role := range roles {
		args[i] = string(role)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role IN ("+placeholders+") ORDER BY created_at ASC, id ASC", //nolint:gosec // placeholders only
		args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUserFrom(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// UpdateRole assigns a new role to an account.
func (r *SQLiteUserRepository) UpdateRole(ctx context.Context, id string, role Role) error {
	if !IsValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET role = ?, updated_at = ? WHERE id = ?",
		string(role), time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	return requireRow(result)
}

// Delete removes an account by ID.
func (r *SQLiteUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireRow(result)
}

// Count returns the total number of accounts.
func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUserFrom(s scanner) (*User, error) {
	var u User
	var role, createdAt, updatedAt string

	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Role = Role(role)
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	return &u, nil
}

func requireRow(result sql.Result) error {
	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
