// Package service implements the field-change request workflow: officers
// file requests, administrators adjudicate them, approval writes the field.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	citizenmodels "nadra/internal/citizen/models"
	deptmodels "nadra/internal/department/models"
	identitymodels "nadra/internal/identity/models"
	"nadra/internal/platform/metrics"
	"nadra/internal/policy"
	"nadra/internal/updaterequest/models"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/sentinel"
	"nadra/pkg/requestcontext"
)

// Store is the request persistence surface.
type Store interface {
	Create(ctx context.Context, req *models.ChangeRequest) error
	FindByID(ctx context.Context, id domain.RequestID) (*models.ChangeRequest, error)
	ListPending(ctx context.Context) ([]*models.ChangeRequest, error)
	ResolvePending(ctx context.Context, id domain.RequestID, to models.Status, resolvedBy domain.UserID, at time.Time,
		apply func(ctx context.Context, req *models.ChangeRequest) error) (*models.ChangeRequest, error)
}

// CitizenStore is the slice of the citizen store the workflow needs: reading
// the record to snapshot old values, and the single-field write on approval.
type CitizenStore interface {
	FindByID(ctx context.Context, id domain.CitizenID) (*citizenmodels.Citizen, error)
	ApplyField(ctx context.Context, id domain.CitizenID, field citizenmodels.MutableField, value string) error
}

// DepartmentStore resolves department names for the adjudication queue view.
type DepartmentStore interface {
	FindByID(ctx context.Context, id domain.DepartmentID) (*deptmodels.Department, error)
}

// UserStore resolves requester names for the adjudication queue view.
type UserStore interface {
	FindByID(ctx context.Context, id domain.UserID) (*identitymodels.User, error)
}

type Service struct {
	store       Store
	citizens    CitizenStore
	departments DepartmentStore
	users       UserStore
	policy      *policy.Policy
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewService(store Store, citizens CitizenStore, departments DepartmentStore, users UserStore,
	pol *policy.Policy, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		citizens:    citizens,
		departments: departments,
		users:       users,
		policy:      pol,
		metrics:     m,
		logger:      logger,
	}
}

// CreateParams carries caller-supplied values for a new request.
type CreateParams struct {
	CitizenID string
	Field     string
	NewValue  string
	Reason    string
}

// Create files a change request. Field eligibility is checked before
// anything else: a request against CNIC or date of birth is a validation
// error for every caller, administrators included, because those fields are
// absent from the mutable-field table. Only then do role checks run.
func (s *Service) Create(ctx context.Context, claims domain.Claims, params CreateParams) (*models.ChangeRequest, error) {
	field, err := citizenmodels.ParseMutableField(params.Field)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanRequestFieldChange(claims); err != nil {
		return nil, err
	}

	citizenID, err := domain.ParseCitizenID(params.CitizenID)
	if err != nil {
		return nil, err
	}
	citizen, err := s.citizens.FindByID(ctx, citizenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up citizen")
	}

	oldValue, err := field.Value(citizen)
	if err != nil {
		return nil, err
	}

	req := &models.ChangeRequest{
		ID:           domain.NewRequestID(),
		CitizenID:    citizenID,
		Field:        field,
		OldValue:     oldValue,
		NewValue:     params.NewValue,
		Reason:       params.Reason,
		Status:       models.StatusPending,
		RequestedBy:  claims.SubjectID,
		DepartmentID: claims.DepartmentID,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}

	if s.metrics != nil {
		s.metrics.RequestsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "change request filed",
		slog.String("request_id", req.ID.String()),
		slog.String("citizen_id", citizenID.String()),
		slog.String("field", field.String()),
		slog.String("requested_by", claims.SubjectID.String()),
	)
	return req, nil
}

// ListPending returns the adjudication queue, oldest requests first, joined
// with the citizen and requester context. A request whose citizen record is
// missing is an invariant failure and aborts the listing; missing department
// or requester rows only blank the enrichment.
func (s *Service) ListPending(ctx context.Context, claims domain.Claims) ([]*models.PendingRequest, error) {
	if err := s.policy.CanAdjudicateRequest(claims); err != nil {
		return nil, err
	}

	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending requests")
	}

	out := make([]*models.PendingRequest, 0, len(pending))
	for _, req := range pending {
		view := &models.PendingRequest{ChangeRequest: *req}

		citizen, err := s.citizens.FindByID(ctx, req.CitizenID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "request references unknown citizen")
		}
		view.CitizenName = citizen.FullName
		view.CitizenCNIC = citizen.CNIC

		if req.DepartmentID != nil {
			if dept, err := s.departments.FindByID(ctx, *req.DepartmentID); err == nil {
				view.DepartmentName = dept.Name
			}
		}
		if user, err := s.users.FindByID(ctx, req.RequestedBy); err == nil {
			view.RequesterName = user.FullName
		}
		out = append(out, view)
	}
	return out, nil
}

// Approve transitions a pending request to Approved and writes the requested
// field to the citizen record. Both happen in one unit: if the field write
// fails the status transition rolls back. Of two concurrent adjudications of
// the same request exactly one succeeds; the loser gets a conflict.
func (s *Service) Approve(ctx context.Context, claims domain.Claims, id domain.RequestID) (*models.ChangeRequest, error) {
	if err := s.policy.CanAdjudicateRequest(claims); err != nil {
		return nil, err
	}

	resolved, err := s.store.ResolvePending(ctx, id, models.StatusApproved, claims.SubjectID, requestcontext.Now(ctx),
		func(ctx context.Context, req *models.ChangeRequest) error {
			return s.citizens.ApplyField(ctx, req.CitizenID, req.Field, req.NewValue)
		})
	if err != nil {
		return nil, s.mapResolveError(err)
	}

	if s.metrics != nil {
		s.metrics.RequestsApproved.Inc()
	}
	s.logger.InfoContext(ctx, "change request approved",
		slog.String("request_id", id.String()),
		slog.String("resolved_by", claims.SubjectID.String()),
	)
	return resolved, nil
}

// Reject transitions a pending request to Rejected. The citizen record is
// untouched.
func (s *Service) Reject(ctx context.Context, claims domain.Claims, id domain.RequestID) (*models.ChangeRequest, error) {
	if err := s.policy.CanAdjudicateRequest(claims); err != nil {
		return nil, err
	}

	resolved, err := s.store.ResolvePending(ctx, id, models.StatusRejected, claims.SubjectID, requestcontext.Now(ctx), nil)
	if err != nil {
		return nil, s.mapResolveError(err)
	}

	if s.metrics != nil {
		s.metrics.RequestsRejected.Inc()
	}
	s.logger.InfoContext(ctx, "change request rejected",
		slog.String("request_id", id.String()),
		slog.String("resolved_by", claims.SubjectID.String()),
	)
	return resolved, nil
}

func (s *Service) mapResolveError(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "request not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeConflict, "request has already been adjudicated")
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve request")
	}
}
