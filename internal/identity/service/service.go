// Package service manages operator accounts. Account creation is gated on
// the administrator role; the only exception is the bootstrap administrator
// created at startup.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"

	deptmodels "nadra/internal/department/models"
	"nadra/internal/identity/models"
	"nadra/internal/platform/metrics"
	"nadra/internal/policy"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/sentinel"
	"nadra/pkg/requestcontext"
	"nadra/pkg/secrets"
)

const minPasswordLength = 8

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id domain.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// DepartmentStore confirms a department exists before binding an officer
// to it. Satisfied by the department stores.
type DepartmentStore interface {
	FindByID(ctx context.Context, id domain.DepartmentID) (*deptmodels.Department, error)
}

type Service struct {
	store       Store
	departments DepartmentStore
	policy      *policy.Policy
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewService(store Store, departments DepartmentStore, pol *policy.Policy, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, departments: departments, policy: pol, metrics: m, logger: logger}
}

// RegisterParams carries caller-supplied values for a new account. Officers
// must name their department; administrators must not.
type RegisterParams struct {
	Email        string
	FullName     string
	Password     string
	Role         string
	DepartmentID string
}

func (p RegisterParams) validate() (domain.Role, error) {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "email address is not valid")
	}
	if p.FullName == "" {
		return "", dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	if len(p.Password) < minPasswordLength {
		return "", dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	role, err := domain.ParseRole(p.Role)
	if err != nil {
		return "", err
	}
	switch role {
	case domain.RoleDepartmentOfficer:
		if p.DepartmentID == "" {
			return "", dErrors.New(dErrors.CodeValidation, "department is required for officers")
		}
	case domain.RoleAdministrator:
		if p.DepartmentID != "" {
			return "", dErrors.New(dErrors.CodeValidation, "administrators are not scoped to a department")
		}
	}
	return role, nil
}

// Register creates an operator account. Administrators only.
func (s *Service) Register(ctx context.Context, claims domain.Claims, params RegisterParams) (*models.User, error) {
	if err := s.policy.CanRegisterAccount(claims); err != nil {
		return nil, err
	}

	role, err := params.validate()
	if err != nil {
		return nil, err
	}

	var deptID *domain.DepartmentID
	if role == domain.RoleDepartmentOfficer {
		parsed, err := domain.ParseDepartmentID(params.DepartmentID)
		if err != nil {
			return nil, err
		}
		if _, err := s.departments.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Wrap(err, dErrors.CodeValidation, "department does not exist")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve department")
		}
		deptID = &parsed
	}

	hash, err := secrets.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           domain.NewUserID(),
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: hash,
		Roles:        []domain.Role{role},
		DepartmentID: deptID,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicate, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	if s.metrics != nil {
		s.metrics.AccountsRegistered.Inc()
	}
	s.logger.InfoContext(ctx, "account registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", role.String()),
		slog.String("registered_by", claims.SubjectID.String()),
	)
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator account if it does not
// already exist. Called once at startup with the configured credentials, so
// a fresh deployment is never locked out of the admin-gated surfaces.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check for admin account")
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           domain.NewUserID(),
		Email:        email,
		FullName:     "System Administrator",
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleAdministrator},
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, user); err != nil {
		// Another replica won the race.
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin account")
	}

	s.logger.InfoContext(ctx, "bootstrap administrator created",
		slog.String("user_id", user.ID.String()),
	)
	return nil
}
