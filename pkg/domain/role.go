package domain

import dErrors "portal/pkg/domain-errors"

// Role is the authorization role of a user account.
// Invariant: the value must be one of the three supported roles.
//
// Usage: construct via ParseRole at trust boundaries (token claims, admin
// requests); direct casting bypasses validation.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRADOR"
	RoleOfficial      Role = "FUNCIONARIO"
	RoleCitizen       Role = "CIUDADANO"
)

var validRoles = map[Role]bool{
	RoleAdministrator: true,
	RoleOfficial:      true,
	RoleCitizen:       true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsStaff reports whether the role belongs to municipal personnel.
func (r Role) IsStaff() bool {
	return r == RoleOfficial || r == RoleAdministrator
}

func (r Role) String() string {
	return string(r)
}
