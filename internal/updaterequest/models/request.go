// Package models defines the field-change request and its status machine.
package models

import (
	"time"

	citizenmodels "nadra/internal/citizen/models"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
)

// Status is the request lifecycle state. Pending is the only state that
// accepts a transition; Approved and Rejected are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// ParseStatus constructs a Status from a stored value.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid request status")
	}
	return st, nil
}

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) String() string { return string(s) }

// ChangeRequest is one proposed mutation of one citizen field. The old value
// is snapshotted at creation so adjudicators see exactly what the requester
// saw.
type ChangeRequest struct {
	ID           domain.RequestID           `json:"id"`
	CitizenID    domain.CitizenID           `json:"citizen_id"`
	Field        citizenmodels.MutableField `json:"field"`
	OldValue     string                     `json:"old_value"`
	NewValue     string                     `json:"new_value"`
	Reason       string                     `json:"reason,omitempty"`
	Status       Status                     `json:"status"`
	RequestedBy  domain.UserID              `json:"requested_by"`
	DepartmentID *domain.DepartmentID       `json:"department_id,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	ResolvedBy   *domain.UserID             `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time                 `json:"resolved_at,omitempty"`
}

// PendingRequest is the adjudication queue view: the request joined with the
// citizen and department context an administrator needs to decide it.
type PendingRequest struct {
	ChangeRequest
	CitizenName    string `json:"citizen_name"`
	CitizenCNIC    string `json:"citizen_cnic"`
	DepartmentName string `json:"department_name,omitempty"`
	RequesterName  string `json:"requester_name,omitempty"`
}
