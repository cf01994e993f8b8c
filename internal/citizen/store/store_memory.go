package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nadra/internal/citizen/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return ErrAlreadyUsed on a CNIC collision at creation
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemory stores citizens in memory for tests and development.
type InMemory struct {
	mu       sync.RWMutex
	citizens map[domain.CitizenID]*models.Citizen
	byCNIC   map[string]domain.CitizenID
}

// NewInMemory constructs an empty in-memory citizen store.
func NewInMemory() *InMemory {
	return &InMemory{
		citizens: make(map[domain.CitizenID]*models.Citizen),
		byCNIC:   make(map[string]domain.CitizenID),
	}
}

func (s *InMemory) Create(_ context.Context, citizen *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCNIC[citizen.CNIC]; taken {
		return fmt.Errorf("cnic %s: %w", citizen.CNIC, sentinel.ErrAlreadyUsed)
	}
	cp := *citizen
	s.citizens[citizen.ID] = &cp
	s.byCNIC[citizen.CNIC] = citizen.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.CitizenID) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.citizens[id]
	if !ok {
		return nil, fmt.Errorf("citizen %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) FindByCNIC(_ context.Context, cnic string) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCNIC[cnic]
	if !ok {
		return nil, fmt.Errorf("cnic %s: %w", cnic, sentinel.ErrNotFound)
	}
	cp := *s.citizens[id]
	return &cp, nil
}

// List returns all citizens ordered by creation time, oldest first.
func (s *InMemory) List(_ context.Context) ([]*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Citizen, 0, len(s.citizens))
	for _, c := range s.citizens {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Update replaces the stored record. The CNIC index is keyed by the stored
// record, which the service guarantees is unchanged on this path.
func (s *InMemory) Update(_ context.Context, citizen *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.citizens[citizen.ID]; !ok {
		return fmt.Errorf("citizen %s: %w", citizen.ID, sentinel.ErrNotFound)
	}
	cp := *citizen
	s.citizens[citizen.ID] = &cp
	return nil
}

// ApplyField writes one field through the accessor table. Called from inside
// a change-request adjudication; the request store's lock serializes
// adjudications, this lock protects the citizen map itself.
func (s *InMemory) ApplyField(_ context.Context, id domain.CitizenID, field models.MutableField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.citizens[id]
	if !ok {
		return fmt.Errorf("citizen %s: %w", id, sentinel.ErrNotFound)
	}
	return field.Apply(c, value)
}
