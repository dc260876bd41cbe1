package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const testSeedPassword = "seed-password-for-tests"

func TestSeedSuperAdmin_CreatesOnEmptyDB(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	created, err := SeedSuperAdmin(ctx, repo, "Store Owner", "owner@example.com", testSeedPassword, logger)
	if err != nil {
		t.Fatalf("SeedSuperAdmin() error = %v", err)
	}
	if !created {
		t.Fatal("SeedSuperAdmin() should report a created account")
	}

	admin, err := repo.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if admin.Role != RoleSuperAdmin {
		t.Errorf("Role = %q, want %q", admin.Role, RoleSuperAdmin)
	}
	if admin.PasswordHash == testSeedPassword || !strings.HasPrefix(admin.PasswordHash, "$argon2id$") {
		t.Errorf("stored credential is not an argon2id hash: %q", admin.PasswordHash)
	}
	if ok, err := VerifyPassword(testSeedPassword, admin.PasswordHash); err != nil || !ok {
		t.Errorf("seed password does not verify: ok=%v err=%v", ok, err)
	}

	if strings.Contains(buf.String(), testSeedPassword) {
		t.Errorf("seed password must never be logged: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "owner@example.com") {
		t.Error("seeded account should be logged by email")
	}
}

func TestSeedSuperAdmin_RequiresPassword(t *testing.T) {
	tests := map[string]struct {
		password string
		wantWeak bool
	}{
		"missing": {password: ""},
		"short":   {password: "short", wantWeak: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db := testDB(t)
			repo := NewUserRepository(db)
			ctx := context.Background()

			created, err := SeedSuperAdmin(ctx, repo, "Owner", "owner@example.com", tt.password, quietLogger())
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("SeedSuperAdmin() error = %v, want ErrConfiguration", err)
			}
			if errors.Is(err, ErrWeakPassword) != tt.wantWeak {
				t.Errorf("ErrWeakPassword = %v, want %v", errors.Is(err, ErrWeakPassword), tt.wantWeak)
			}
			if created {
				t.Error("no account should be reported as created")
			}
			if n, _ := repo.Count(ctx); n != 0 {
				t.Errorf("Count() = %d, want 0", n)
			}
		})
	}
}

func TestSeedSuperAdmin_SkipsWhenAccountsExist(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedTestUser(t, db, "existing@example.com", RoleMember)

	// No password is needed once the directory has accounts.
	created, err := SeedSuperAdmin(ctx, repo, "Store Owner", "owner@example.com", "", quietLogger())
	if err != nil {
		t.Fatalf("SeedSuperAdmin() error = %v", err)
	}
	if created {
		t.Error("SeedSuperAdmin() should skip when accounts exist")
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestSeedSuperAdmin_Idempotent(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := SeedSuperAdmin(ctx, repo, "Owner", "owner@example.com", testSeedPassword, quietLogger())
	if err != nil || !first {
		t.Fatalf("first SeedSuperAdmin() = %v, %v", first, err)
	}
	second, err := SeedSuperAdmin(ctx, repo, "Owner", "owner@example.com", testSeedPassword, quietLogger())
	if err != nil || second {
		t.Errorf("second SeedSuperAdmin() = %v, %v, want skipped", second, err)
	}
}
