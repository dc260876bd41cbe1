// Package audit provides access to the system_logs table, the staff-visible
// trail of role changes, maintenance toggles and catalog edits.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultListLimit is the number of entries returned by the staff listing.
	DefaultListLimit = 50

	// Retention is how long entries are kept before PruneOlderThan removes them.
	Retention = 90 * 24 * time.Hour

	// timeLayout is fixed-width so created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// SystemLog is a single trail entry.
type SystemLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Log       string    `json:"log"`
	CreatedAt time.Time `json:"timestamp"`
}

// Repository defines the interface for system log operations.
type Repository interface {
	Create(ctx context.Context, entry *SystemLog) error
	ListLatest(ctx context.Context, limit int) ([]SystemLog, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SQLiteRepository stores system logs in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new system log repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts an entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *SystemLog) error {
	if entry.ID == "" {
		entry.ID = "log-" + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO system_logs (id, user_id, log, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Log, entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting system log: %w", err)
	}
	return nil
}

// ListLatest returns up to limit entries, most recent first.
// A non-positive limit means DefaultListLimit.
func (r *SQLiteRepository) ListLatest(ctx context.Context, limit int) ([]SystemLog, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, log, created_at FROM system_logs ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying system logs: %w", err)
	}
	defer rows.Close()

	logs := []SystemLog{}
	for rows.Next() {
		var entry SystemLog
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Log, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning system log: %w", err)
		}

		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing system log timestamp %q: %w", createdAt, err)
		}
		entry.CreatedAt = t
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating system logs: %w", err)
	}
	return logs, nil
}

// PruneOlderThan deletes entries created before cutoff and reports how many
// were removed.
func (r *SQLiteRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM system_logs WHERE created_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning system logs: %w", err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	return n, nil
}
