package auth

import "slices"

// RoleSet is the list of roles a gate admits.
type RoleSet []Role

// Gate instances used by the router.
var (
	// StaffRoles admits admins and super-admins.
	StaffRoles = RoleSet{RoleAdmin, RoleSuperAdmin}

	// SuperAdminRoles admits super-admins only.
	SuperAdminRoles = RoleSet{RoleSuperAdmin}
)

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	return slices.Contains(s, r)
}

// RequireRole returns ErrUnauthorized when no principal is attached and
// ErrForbidden when the principal's role is not in allowed.
func RequireRole(u *User, allowed RoleSet) error {
	if u == nil {
		return ErrUnauthorized
	}
	if !allowed.Contains(u.Role) {
		return ErrForbidden
	}
	return nil
}

// CheckMaintenance lets staff through unconditionally and everyone else
// only while maintenance mode is off. A nil principal is treated as a
// non-staff caller.
func CheckMaintenance(u *User, m *MaintenanceState) error {
	if u != nil && u.Role.IsStaff() {
		return nil
	}
	if m != nil && m.Enabled() {
		return ErrServiceUnavailable
	}
	return nil
}
