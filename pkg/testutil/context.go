package testutil

import (
	"net/http"

	"nadra/pkg/domain"
	"nadra/pkg/requestcontext"
)

// WithClaims attaches verified claims to the request context, simulating what
// the auth middleware does for authenticated requests.
func WithClaims(req *http.Request, claims domain.Claims) *http.Request {
	return req.WithContext(requestcontext.WithClaims(req.Context(), claims))
}

// AdminClaims returns claims for an administrator subject.
func AdminClaims() domain.Claims {
	return domain.Claims{
		SubjectID: domain.NewUserID(),
		FullName:  "Test Admin",
		Roles:     []domain.Role{domain.RoleAdministrator},
	}
}

// OfficerClaims returns claims for an officer of the given department.
func OfficerClaims(dept domain.DepartmentID) domain.Claims {
	return domain.Claims{
		SubjectID:    domain.NewUserID(),
		FullName:     "Test Officer",
		Roles:        []domain.Role{domain.RoleDepartmentOfficer},
		DepartmentID: &dept,
	}
}
