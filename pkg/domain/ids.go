package domain

import (
	"github.com/google/uuid"

	dErrors "nadra/pkg/domain-errors"
)

// Typed entity identifiers. Distinct types keep a citizen id from ever being
// passed where a request id is expected; the compiler enforces the boundary.
//
// Construct from external input via the Parse* functions, which reject empty,
// malformed, and nil UUIDs. Direct casting bypasses validation.
type (
	// CitizenID identifies a citizen record.
	CitizenID uuid.UUID
	// DepartmentID identifies a department.
	DepartmentID uuid.UUID
	// RequestID identifies a field-change request.
	RequestID uuid.UUID
	// UserID identifies a credentialed subject (admin or officer account).
	UserID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseCitizenID validates and returns a CitizenID.
func ParseCitizenID(s string) (CitizenID, error) {
	u, err := parseUUID(s)
	return CitizenID(u), err
}

// ParseDepartmentID validates and returns a DepartmentID.
func ParseDepartmentID(s string) (DepartmentID, error) {
	u, err := parseUUID(s)
	return DepartmentID(u), err
}

// ParseRequestID validates and returns a RequestID.
func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s)
	return RequestID(u), err
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

func (id CitizenID) String() string    { return uuid.UUID(id).String() }
func (id DepartmentID) String() string { return uuid.UUID(id).String() }
func (id RequestID) String() string    { return uuid.UUID(id).String() }
func (id UserID) String() string       { return uuid.UUID(id).String() }

func (id CitizenID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DepartmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// NewCitizenID returns a fresh random CitizenID.
func NewCitizenID() CitizenID { return CitizenID(uuid.New()) }

// NewDepartmentID returns a fresh random DepartmentID.
func NewDepartmentID() DepartmentID { return DepartmentID(uuid.New()) }

// NewRequestID returns a fresh random RequestID.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }
