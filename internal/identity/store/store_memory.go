package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"nadra/internal/identity/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

// InMemory stores operator accounts in memory for tests and development.
// Email lookups are case-insensitive.
type InMemory struct {
	mu      sync.RWMutex
	users   map[domain.UserID]*models.User
	byEmail map[string]domain.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[domain.UserID]*models.User),
		byEmail: make(map[string]domain.UserID),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Roles = make([]domain.Role, len(u.Roles))
	copy(cp.Roles, u.Roles)
	return &cp
}

func (s *InMemory) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := s.byEmail[key]; taken {
		return fmt.Errorf("email %s: %w", user.Email, sentinel.ErrAlreadyUsed)
	}
	s.users[user.ID] = copyUser(user)
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, fmt.Errorf("email %s: %w", email, sentinel.ErrNotFound)
	}
	return copyUser(s.users[id]), nil
}
