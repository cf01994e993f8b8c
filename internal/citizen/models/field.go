package models

import (
	"strconv"

	dErrors "nadra/pkg/domain-errors"
)

// MutableField enumerates the citizen fields eligible for change requests.
//
// The accessor table below is the single source of truth for field dispatch:
// every mutable field has a read and a write function, and the immutable
// fields (CNIC, date of birth) are structurally absent, so no caller, not
// even an administrator, can route a change request at them. Field
// mutability is a schema rule, not a role rule.
type MutableField string

const (
	FieldFullName      MutableField = "FullName"
	FieldFatherName    MutableField = "FatherName"
	FieldGender        MutableField = "Gender"
	FieldAddress       MutableField = "Address"
	FieldMaritalStatus MutableField = "MaritalStatus"
	FieldNationality   MutableField = "Nationality"
	FieldAlive         MutableField = "IsAlive"
)

type fieldAccessor struct {
	get func(*Citizen) string
	set func(*Citizen, string) error
}

func stringAccessor(get func(*Citizen) *string) fieldAccessor {
	return fieldAccessor{
		get: func(c *Citizen) string { return *get(c) },
		set: func(c *Citizen, v string) error {
			*get(c) = v
			return nil
		},
	}
}

var fieldAccessors = map[MutableField]fieldAccessor{
	FieldFullName:      stringAccessor(func(c *Citizen) *string { return &c.FullName }),
	FieldFatherName:    stringAccessor(func(c *Citizen) *string { return &c.FatherName }),
	FieldGender:        stringAccessor(func(c *Citizen) *string { return &c.Gender }),
	FieldAddress:       stringAccessor(func(c *Citizen) *string { return &c.Address }),
	FieldMaritalStatus: stringAccessor(func(c *Citizen) *string { return &c.MaritalStatus }),
	FieldNationality:   stringAccessor(func(c *Citizen) *string { return &c.Nationality }),
	FieldAlive: {
		get: func(c *Citizen) string { return strconv.FormatBool(c.Alive) },
		set: func(c *Citizen, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return dErrors.New(dErrors.CodeValidation, "IsAlive must be true or false")
			}
			c.Alive = b
			return nil
		},
	},
}

// ParseMutableField constructs a MutableField from external input. Immutable
// and unknown field names are rejected with a validation error; this check
// runs before any role logic on the change-request path.
func ParseMutableField(s string) (MutableField, error) {
	f := MutableField(s)
	if _, ok := fieldAccessors[f]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "field not eligible for change requests")
	}
	return f, nil
}

// MutableFields returns every field eligible for change requests.
func MutableFields() []MutableField {
	return []MutableField{
		FieldFullName,
		FieldFatherName,
		FieldGender,
		FieldAddress,
		FieldMaritalStatus,
		FieldNationality,
		FieldAlive,
	}
}

// Value returns the field's current value as its canonical string form
// (booleans render "true"/"false"). Used to snapshot old values at request
// creation.
//
// An unknown field here means a request was persisted without passing
// ParseMutableField, which is a logic violation, reported as such.
func (f MutableField) Value(c *Citizen) (string, error) {
	acc, ok := fieldAccessors[f]
	if !ok {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "unknown field in accessor table lookup")
	}
	return acc.get(c), nil
}

// Apply writes the value into the citizen record via the accessor table.
// Same invariant as Value: an unknown field is never a silent no-op.
func (f MutableField) Apply(c *Citizen, value string) error {
	acc, ok := fieldAccessors[f]
	if !ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown field in accessor table lookup")
	}
	return acc.set(c, value)
}

func (f MutableField) String() string { return string(f) }
