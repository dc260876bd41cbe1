package auth

import (
	"errors"
	"time"
)

// Role represents an authorisation tier.
type Role string

const (
	// RoleMember is a shopper account. Subject to maintenance mode.
	RoleMember Role = "member"

	// RoleAdmin manages the catalog and reads system logs.
	// Bypasses maintenance mode.
	RoleAdmin Role = "admin"

	// RoleSuperAdmin has everything admin can do plus role assignment and
	// the maintenance toggle.
	RoleSuperAdmin Role = "super-admin"
)

// ValidRoles is the closed set of account roles.
var ValidRoles = []Role{RoleMember, RoleAdmin, RoleSuperAdmin}

// IsValidRole reports whether r is one of ValidRoles.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsStaff reports whether r bypasses maintenance mode.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is an account as stored in the directory. Once attached to a
// request it is the authenticated principal.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal returns a copy of u with the credential removed.
func (u *User) Principal() *User {
	p := *u
	p.PasswordHash = ""
	return &p
}

// Sentinel errors for auth operations.
var (
	// ErrUnauthorized means no valid session could be established.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the principal's role is not allowed.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrServiceUnavailable means maintenance mode turned the request away.
	ErrServiceUnavailable = errors.New("service under maintenance")

	// ErrConfiguration means a required signing secret is missing.
	ErrConfiguration = errors.New("auth configuration error")

	// ErrTokenInvalid covers malformed, tampered, expired, wrong-kind and
	// subject-less tokens alike.
	ErrTokenInvalid = errors.New("invalid token")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrEmptyPassword      = errors.New("password must not be empty")
	ErrWeakPassword       = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfModification   = errors.New("cannot modify own account in this way")
)
