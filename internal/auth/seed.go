package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// MinPasswordLength is the shortest password any account may have.
const MinPasswordLength = 8

// SeedSuperAdmin creates the first super-admin when the directory is empty.
// The password is supplied by the operator and only its hash is stored.
// It reports whether an account was created.
func SeedSuperAdmin(ctx context.Context, users UserRepository, name, email, password string, logger *slog.Logger) (bool, error) {
	count, err := users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		logger.Info("accounts exist, skipping super-admin seed")
		return false, nil
	}

	switch {
	case password == "":
		return false, fmt.Errorf("%w: seed super-admin password is not set (set STOREFRONT_SEED_PASSWORD)", ErrConfiguration)
	case len(password) < MinPasswordLength:
		return false, fmt.Errorf("%w: seed super-admin password must be at least %d characters: %w",
			ErrConfiguration, MinPasswordLength, ErrWeakPassword)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("creating seed super-admin: %w", err)
	}

	logger.Info("seed super-admin account created", "user_id", admin.ID, "email", email)
	return true, nil
}
