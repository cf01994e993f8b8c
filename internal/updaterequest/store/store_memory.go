package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"nadra/internal/updaterequest/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

// InMemory stores change requests in memory for tests and development.
//
// Adjudication is serialized by the store lock: of two concurrent attempts to
// resolve the same pending request, exactly one observes Pending and wins;
// the other gets ErrInvalidState.
type InMemory struct {
	mu       sync.Mutex
	requests map[domain.RequestID]*models.ChangeRequest
}

func NewInMemory() *InMemory {
	return &InMemory{requests: make(map[domain.RequestID]*models.ChangeRequest)}
}

func (s *InMemory) Create(_ context.Context, req *models.ChangeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.RequestID) (*models.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

// ListPending returns pending requests oldest first.
func (s *InMemory) ListPending(_ context.Context) ([]*models.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.ChangeRequest
	for _, r := range s.requests {
		if r.Status == models.StatusPending {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ResolvePending transitions a pending request to a terminal status and runs
// the apply callback under the same lock. If the callback fails, the
// transition is rolled back, mirroring the transactional postgres store.
func (s *InMemory) ResolvePending(
	ctx context.Context,
	id domain.RequestID,
	to models.Status,
	resolvedBy domain.UserID,
	at time.Time,
	apply func(ctx context.Context, req *models.ChangeRequest) error,
) (*models.ChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, sentinel.ErrNotFound)
	}
	if r.Status != models.StatusPending {
		return nil, fmt.Errorf("request %s is %s: %w", id, r.Status, sentinel.ErrInvalidState)
	}

	prev := *r
	r.Status = to
	r.ResolvedBy = &resolvedBy
	r.ResolvedAt = &at

	if apply != nil {
		if err := apply(ctx, r); err != nil {
			*r = prev
			return nil, err
		}
	}

	cp := *r
	return &cp, nil
}
