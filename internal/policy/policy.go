// Package policy centralizes the access decisions for the registry. Every
// rule is a pure function of the verified claims; handlers and services call
// these instead of inspecting roles inline, so the full permission surface is
// readable in one place.
package policy

import (
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
)

// Policy answers authorization questions. The origin department is the single
// department whose officers may register citizens; it is resolved to an ID
// once at startup, never compared by display name.
type Policy struct {
	originDepartment domain.DepartmentID
}

// New constructs a Policy with the given origin department.
func New(originDepartment domain.DepartmentID) *Policy {
	return &Policy{originDepartment: originDepartment}
}

func deny(msg string) error {
	return dErrors.New(dErrors.CodeForbidden, msg)
}

// CanRegisterCitizen allows administrators and officers of the origin
// department only. Officers of other departments may look citizens up and
// file change requests but never create records.
func (p *Policy) CanRegisterCitizen(claims domain.Claims) error {
	if claims.IsAdministrator() {
		return nil
	}
	if claims.IsDepartmentOfficer() && claims.DepartmentID != nil && *claims.DepartmentID == p.originDepartment {
		return nil
	}
	return deny("only the origin department may register citizens")
}

// CanVerifyCitizen allows any authenticated caller to look a citizen up by
// national identifier.
func (p *Policy) CanVerifyCitizen(claims domain.Claims) error {
	if claims.IsAdministrator() || claims.IsDepartmentOfficer() {
		return nil
	}
	return deny("caller has no recognized role")
}

// CanReadAllCitizens restricts the full registry listing to administrators.
func (p *Policy) CanReadAllCitizens(claims domain.Claims) error {
	if claims.IsAdministrator() {
		return nil
	}
	return deny("only administrators may list the registry")
}

// CanUpdateCitizen restricts the direct edit path to administrators. Officers
// change records through the request workflow instead.
func (p *Policy) CanUpdateCitizen(claims domain.Claims) error {
	if claims.IsAdministrator() {
		return nil
	}
	return deny("only administrators may edit records directly")
}

// CanRequestFieldChange allows only department officers with an assigned
// department to file a change request; every request carries its originating
// department, so a department-less caller has nothing to attribute it to.
// Administrators edit records directly instead of filing requests. Which
// fields are eligible is a schema rule checked elsewhere, not a role rule.
func (p *Policy) CanRequestFieldChange(claims domain.Claims) error {
	if claims.IsDepartmentOfficer() && claims.DepartmentID != nil {
		return nil
	}
	return deny("only department officers may file change requests")
}

// CanAdjudicateRequest restricts approving and rejecting pending requests to
// administrators.
func (p *Policy) CanAdjudicateRequest(claims domain.Claims) error {
	if claims.IsAdministrator() {
		return nil
	}
	return deny("only administrators may adjudicate requests")
}

// CanRegisterAccount restricts creating operator accounts to administrators.
func (p *Policy) CanRegisterAccount(claims domain.Claims) error {
	if claims.IsAdministrator() {
		return nil
	}
	return deny("only administrators may register accounts")
}
