package domain

import "time"

// Claims is the verified content of a credential, as seen by authorization
// policy and services. It is assembled by the token layer after signature and
// expiry checks; nothing in here is trusted from client input directly.
//
// Invariant: Roles is never empty for an authenticated subject with at least
// one assignment; DepartmentID is nil for subjects without an affiliation.
type Claims struct {
	SubjectID    UserID
	FullName     string
	Roles        []Role
	DepartmentID *DepartmentID
	// TokenID is the credential's unique identifier (jti), used by the
	// revocation list.
	TokenID string
	// ExpiresAt bounds how long a logout must keep the token revoked.
	ExpiresAt time.Time
}

// HasRole reports whether the subject carries the given role.
func (c Claims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdministrator is a convenience for the most common policy check.
func (c Claims) IsAdministrator() bool {
	return c.HasRole(RoleAdministrator)
}

// IsDepartmentOfficer reports whether the subject holds the officer role.
func (c Claims) IsDepartmentOfficer() bool {
	return c.HasRole(RoleDepartmentOfficer)
}
