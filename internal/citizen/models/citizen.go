package models

import (
	"regexp"
	"time"

	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
)

// cnicPattern is the fixed national identifier format: 12345-1234567-1.
var cnicPattern = regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`)

// DefaultNationality is applied when registration omits the nationality.
const DefaultNationality = "Pakistani"

// Citizen is the registry record.
//
// Invariants:
//   - CNIC is globally unique and matches cnicPattern; it is validated at
//     creation and never re-validated at mutation because the mutation path
//     structurally cannot touch it (see field.go).
//   - DateOfBirth is likewise outside the change-request path.
//   - CreatedAt is server-assigned and immutable.
type Citizen struct {
	ID            domain.CitizenID `json:"id"`
	FullName      string           `json:"full_name"`
	CNIC          string           `json:"cnic"`
	FatherName    string           `json:"father_name"`
	DateOfBirth   time.Time        `json:"date_of_birth"`
	Gender        string           `json:"gender"`
	Address       string           `json:"address"`
	MaritalStatus string           `json:"marital_status"`
	Nationality   string           `json:"nationality"`
	Alive         bool             `json:"alive"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ValidateCNIC checks the fixed NNNNN-NNNNNNN-N format.
func ValidateCNIC(cnic string) error {
	if !cnicPattern.MatchString(cnic) {
		return dErrors.New(dErrors.CodeValidation, "CNIC must be in format: 12345-1234567-1")
	}
	return nil
}

// NewCitizen assembles a record with defaults applied. Nationality defaults
// to DefaultNationality and the alive flag to true when the caller omits
// them.
func NewCitizen(id domain.CitizenID, fields RegistrationFields, now time.Time) (*Citizen, error) {
	if err := ValidateCNIC(fields.CNIC); err != nil {
		return nil, err
	}
	nationality := fields.Nationality
	if nationality == "" {
		nationality = DefaultNationality
	}
	alive := true
	if fields.Alive != nil {
		alive = *fields.Alive
	}
	return &Citizen{
		ID:            id,
		FullName:      fields.FullName,
		CNIC:          fields.CNIC,
		FatherName:    fields.FatherName,
		DateOfBirth:   fields.DateOfBirth,
		Gender:        fields.Gender,
		Address:       fields.Address,
		MaritalStatus: fields.MaritalStatus,
		Nationality:   nationality,
		Alive:         alive,
		CreatedAt:     now,
	}, nil
}

// RegistrationFields carries caller-supplied values for a new record.
// Nationality and Alive are optional; defaults apply when absent.
type RegistrationFields struct {
	FullName      string
	CNIC          string
	FatherName    string
	DateOfBirth   time.Time
	Gender        string
	Address       string
	MaritalStatus string
	Nationality   string
	Alive         *bool
}
