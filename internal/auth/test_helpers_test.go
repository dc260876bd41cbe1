package auth

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/storefront-core/internal/infrastructure/database"
	"github.com/nerrad567/storefront-core/migrations"
)

const (
	testAccessSecret  = "access-secret-for-tests-0123456789abcdef"
	testRefreshSecret = "refresh-secret-for-tests-0123456789abcdef"
)

// t0 is the fixed clock used by token tests.
var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// testDB opens a temporary SQLite database with the real schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "auth-test.db"),
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

// seedTestUser inserts an account with password "test-password".
func seedTestUser(t *testing.T, db *sql.DB, email string, role Role) *User {
	t.Helper()

	hash, err := HashPassword("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Name:         email,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}

// clock is a settable time source for token tests.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock { return &clock{now: t0} }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestTokenService(t *testing.T, c *clock) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Now:           c.Now,
	})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc
}
