package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	deptmodels "nadra/internal/department/models"
	deptstore "nadra/internal/department/store"
	"nadra/internal/identity/store"
	"nadra/internal/policy"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/secrets"
)

type IdentityServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemory
	service *Service

	bankDept domain.DepartmentID
	admin    domain.Claims
	officer  domain.Claims
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()

	depts := deptstore.NewInMemory()
	origin := domain.NewDepartmentID()
	s.bankDept = domain.NewDepartmentID()
	s.Require().NoError(depts.Create(s.ctx, &deptmodels.Department{ID: origin, Name: "Union Council", Type: "Government", CreatedAt: time.Now()}))
	s.Require().NoError(depts.Create(s.ctx, &deptmodels.Department{ID: s.bankDept, Name: "Bank", Type: "Financial", CreatedAt: time.Now()}))

	s.admin = domain.Claims{
		SubjectID: domain.NewUserID(),
		Roles:     []domain.Role{domain.RoleAdministrator},
	}
	s.officer = domain.Claims{
		SubjectID:    domain.NewUserID(),
		Roles:        []domain.Role{domain.RoleDepartmentOfficer},
		DepartmentID: &s.bankDept,
	}

	s.service = NewService(s.store, depts, policy.New(origin), nil, slog.Default())
}

func (s *IdentityServiceSuite) officerParams() RegisterParams {
	return RegisterParams{
		Email:        "officer@bank.example",
		FullName:     "Bank Officer",
		Password:     "s3cret-pass",
		Role:         "DepartmentOfficer",
		DepartmentID: s.bankDept.String(),
	}
}

func (s *IdentityServiceSuite) TestRegister() {
	s.Run("admin registers an officer", func() {
		u, err := s.service.Register(s.ctx, s.admin, s.officerParams())
		s.Require().NoError(err)
		s.Require().NotNil(u.DepartmentID)
		s.Equal(s.bankDept, *u.DepartmentID)
		s.Equal([]domain.Role{domain.RoleDepartmentOfficer}, u.Roles)
		s.NoError(secrets.Verify("s3cret-pass", u.PasswordHash))
	})

	s.Run("duplicate email rejected", func() {
		_, err := s.service.Register(s.ctx, s.admin, s.officerParams())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicate))
	})

	s.Run("officers may not register accounts", func() {
		p := s.officerParams()
		p.Email = "another@bank.example"
		_, err := s.service.Register(s.ctx, s.officer, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *IdentityServiceSuite) TestRegisterValidation() {
	cases := map[string]func(*RegisterParams){
		"bad email":                 func(p *RegisterParams) { p.Email = "not-an-email" },
		"missing name":              func(p *RegisterParams) { p.FullName = "" },
		"short password":            func(p *RegisterParams) { p.Password = "short" },
		"officer without dept":      func(p *RegisterParams) { p.DepartmentID = "" },
		"malformed department id":   func(p *RegisterParams) { p.DepartmentID = "not-a-uuid" },
		"nonexistent department id": func(p *RegisterParams) { p.DepartmentID = domain.NewDepartmentID().String() },
		"admin with department": func(p *RegisterParams) {
			p.Role = "Admin"
		},
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			p := s.officerParams()
			mutate(&p)
			_, err := s.service.Register(s.ctx, s.admin, p)
			s.Require().Error(err)
		})
	}

	s.Run("unknown role", func() {
		p := s.officerParams()
		p.Role = "SuperUser"
		_, err := s.service.Register(s.ctx, s.admin, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *IdentityServiceSuite) TestEnsureAdmin() {
	s.Require().NoError(s.service.EnsureAdmin(s.ctx, "admin@nadra.example", "bootstrap-pass"))

	u, err := s.store.FindByEmail(s.ctx, "admin@nadra.example")
	s.Require().NoError(err)
	s.Equal([]domain.Role{domain.RoleAdministrator}, u.Roles)
	s.Nil(u.DepartmentID)

	s.Run("idempotent", func() {
		s.Require().NoError(s.service.EnsureAdmin(s.ctx, "admin@nadra.example", "different-pass"))
		again, err := s.store.FindByEmail(s.ctx, "admin@nadra.example")
		s.Require().NoError(err)
		s.Equal(u.ID, again.ID)
		s.NoError(secrets.Verify("bootstrap-pass", again.PasswordHash))
	})

	s.Run("no-op without configured credentials", func() {
		s.Require().NoError(s.service.EnsureAdmin(s.ctx, "", ""))
	})
}
