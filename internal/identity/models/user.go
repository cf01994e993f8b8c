package models

import (
	"time"

	"nadra/pkg/domain"
)

// User is an operator account: an administrator or a department officer.
// Citizens are registry records, not users; they never log in.
type User struct {
	ID           domain.UserID
	Email        string
	FullName     string
	PasswordHash string
	Roles        []domain.Role
	DepartmentID *domain.DepartmentID
	CreatedAt    time.Time
}

// Claims projects the account into the verified-claims shape carried by
// tokens and the request context.
func (u *User) Claims() domain.Claims {
	roles := make([]domain.Role, len(u.Roles))
	copy(roles, u.Roles)
	return domain.Claims{
		SubjectID:    u.ID,
		FullName:     u.FullName,
		Roles:        roles,
		DepartmentID: u.DepartmentID,
	}
}
