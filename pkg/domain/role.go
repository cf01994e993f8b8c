package domain

import dErrors "nadra/pkg/domain-errors"

// Role is a closed enumeration of subject roles. Using an enum instead of
// free-form role strings eliminates typo-class authorization bugs.
//
// Construct from external input via ParseRole; direct casting bypasses the
// allowlist.
type Role string

const (
	// RoleAdministrator may adjudicate change requests, read all citizens,
	// register accounts and edit citizens directly.
	RoleAdministrator Role = "Admin"
	// RoleDepartmentOfficer is scoped to exactly one department and may raise
	// field-change requests for that department.
	RoleDepartmentOfficer Role = "DepartmentOfficer"
)

var validRoles = map[Role]bool{
	RoleAdministrator:     true,
	RoleDepartmentOfficer: true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
