// Package service implements citizen registration, lookup and the
// administrator's direct edit path.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"nadra/internal/citizen/models"
	"nadra/internal/platform/metrics"
	"nadra/internal/policy"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/sentinel"
	"nadra/pkg/requestcontext"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, citizen *models.Citizen) error
	FindByID(ctx context.Context, id domain.CitizenID) (*models.Citizen, error)
	FindByCNIC(ctx context.Context, cnic string) (*models.Citizen, error)
	List(ctx context.Context) ([]*models.Citizen, error)
	Update(ctx context.Context, citizen *models.Citizen) error
}

type Service struct {
	store   Store
	policy  *policy.Policy
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(store Store, pol *policy.Policy, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, policy: pol, metrics: m, logger: logger}
}

// Register creates a citizen record. Only administrators and origin
// department officers pass the policy gate. The CNIC is validated here and
// never again: the mutation paths cannot reach it.
func (s *Service) Register(ctx context.Context, claims domain.Claims, fields models.RegistrationFields) (*models.Citizen, error) {
	if err := s.policy.CanRegisterCitizen(claims); err != nil {
		return nil, err
	}

	citizen, err := models.NewCitizen(domain.NewCitizenID(), fields, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, citizen); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicate, "citizen with this CNIC already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create citizen")
	}

	if s.metrics != nil {
		s.metrics.CitizensRegistered.Inc()
	}
	s.logger.InfoContext(ctx, "citizen registered",
		slog.String("citizen_id", citizen.ID.String()),
		slog.String("registered_by", claims.SubjectID.String()),
	)
	return citizen, nil
}

// VerifyByCNIC looks a citizen up by national identifier. Open to every
// authenticated caller.
func (s *Service) VerifyByCNIC(ctx context.Context, claims domain.Claims, cnic string) (*models.Citizen, error) {
	if err := s.policy.CanVerifyCitizen(claims); err != nil {
		return nil, err
	}
	if err := models.ValidateCNIC(cnic); err != nil {
		return nil, err
	}

	citizen, err := s.store.FindByCNIC(ctx, cnic)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up citizen")
	}
	return citizen, nil
}

// Get fetches one record by ID. Same audience as VerifyByCNIC.
func (s *Service) Get(ctx context.Context, claims domain.Claims, id domain.CitizenID) (*models.Citizen, error) {
	if err := s.policy.CanVerifyCitizen(claims); err != nil {
		return nil, err
	}
	citizen, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up citizen")
	}
	return citizen, nil
}

// List returns the whole registry, oldest records first. Administrators only.
func (s *Service) List(ctx context.Context, claims domain.Claims) ([]*models.Citizen, error) {
	if err := s.policy.CanReadAllCitizens(claims); err != nil {
		return nil, err
	}
	citizens, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list citizens")
	}
	return citizens, nil
}

// UpdateFields is the administrator's direct-edit payload. It replaces every
// editable field, including date of birth, which the request workflow cannot
// touch. CNIC, when supplied, must match the stored value.
type UpdateFields struct {
	FullName      string
	CNIC          string
	FatherName    string
	DateOfBirth   time.Time
	Gender        string
	Address       string
	MaritalStatus string
	Nationality   string
	Alive         bool
}

// Update is the administrator's direct edit, bypassing the request workflow.
func (s *Service) Update(ctx context.Context, claims domain.Claims, id domain.CitizenID, fields UpdateFields) (*models.Citizen, error) {
	if err := s.policy.CanUpdateCitizen(claims); err != nil {
		return nil, err
	}

	citizen, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up citizen")
	}

	if fields.CNIC != "" && fields.CNIC != citizen.CNIC {
		return nil, dErrors.New(dErrors.CodeValidation, "CNIC cannot be modified")
	}

	citizen.FullName = fields.FullName
	citizen.FatherName = fields.FatherName
	citizen.DateOfBirth = fields.DateOfBirth
	citizen.Gender = fields.Gender
	citizen.Address = fields.Address
	citizen.MaritalStatus = fields.MaritalStatus
	citizen.Nationality = fields.Nationality
	citizen.Alive = fields.Alive

	if err := s.store.Update(ctx, citizen); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update citizen")
	}

	s.logger.InfoContext(ctx, "citizen updated directly",
		slog.String("citizen_id", citizen.ID.String()),
		slog.String("updated_by", claims.SubjectID.String()),
	)
	return citizen, nil
}
