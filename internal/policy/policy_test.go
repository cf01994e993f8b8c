package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
)

func claimsFor(role domain.Role, dept *domain.DepartmentID) domain.Claims {
	return domain.Claims{
		SubjectID:    domain.NewUserID(),
		FullName:     "Test Operator",
		Roles:        []domain.Role{role},
		DepartmentID: dept,
	}
}

func TestPolicy(t *testing.T) {
	origin := domain.NewDepartmentID()
	other := domain.NewDepartmentID()
	p := New(origin)

	admin := claimsFor(domain.RoleAdministrator, nil)
	originOfficer := claimsFor(domain.RoleDepartmentOfficer, &origin)
	otherOfficer := claimsFor(domain.RoleDepartmentOfficer, &other)
	nobody := domain.Claims{SubjectID: domain.NewUserID()}

	t.Run("register citizen", func(t *testing.T) {
		assert.NoError(t, p.CanRegisterCitizen(admin))
		assert.NoError(t, p.CanRegisterCitizen(originOfficer))

		err := p.CanRegisterCitizen(otherOfficer)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		officerNoDept := claimsFor(domain.RoleDepartmentOfficer, nil)
		assert.Error(t, p.CanRegisterCitizen(officerNoDept))
	})

	t.Run("verify citizen", func(t *testing.T) {
		assert.NoError(t, p.CanVerifyCitizen(admin))
		assert.NoError(t, p.CanVerifyCitizen(otherOfficer))
		assert.Error(t, p.CanVerifyCitizen(nobody))
	})

	t.Run("admin only surfaces", func(t *testing.T) {
		for name, check := range map[string]func(domain.Claims) error{
			"list registry":    p.CanReadAllCitizens,
			"direct edit":      p.CanUpdateCitizen,
			"adjudicate":       p.CanAdjudicateRequest,
			"register account": p.CanRegisterAccount,
		} {
			t.Run(name, func(t *testing.T) {
				assert.NoError(t, check(admin))

				err := check(otherOfficer)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
			})
		}
	})

	t.Run("change requests need an officer with a department", func(t *testing.T) {
		assert.NoError(t, p.CanRequestFieldChange(originOfficer))
		assert.NoError(t, p.CanRequestFieldChange(otherOfficer))

		err := p.CanRequestFieldChange(admin)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		officerNoDept := claimsFor(domain.RoleDepartmentOfficer, nil)
		err = p.CanRequestFieldChange(officerNoDept)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		assert.Error(t, p.CanRequestFieldChange(nobody))
	})
}
