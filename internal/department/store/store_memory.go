package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nadra/internal/department/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

// InMemory stores departments in memory for tests and development.
type InMemory struct {
	mu          sync.RWMutex
	departments map[domain.DepartmentID]*models.Department
	byName      map[string]domain.DepartmentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		departments: make(map[domain.DepartmentID]*models.Department),
		byName:      make(map[string]domain.DepartmentID),
	}
}

func (s *InMemory) Create(_ context.Context, dept *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[dept.Name]; taken {
		return fmt.Errorf("department %q: %w", dept.Name, sentinel.ErrAlreadyUsed)
	}
	cp := *dept
	s.departments[dept.ID] = &cp
	s.byName[dept.Name] = dept.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.DepartmentID) (*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.departments[id]
	if !ok {
		return nil, fmt.Errorf("department %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("department %q: %w", name, sentinel.ErrNotFound)
	}
	cp := *s.departments[id]
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
