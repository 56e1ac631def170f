package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"questify/internal/auth"
	"questify/pkg/apperrors"
)

// MemoryUsers keeps accounts in a map. It favors clarity over performance
// and backs tests and local development.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[uuid.UUID]auth.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[uuid.UUID]auth.User)}
}

func (s *MemoryUsers) Create(_ context.Context, user auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Gmail == user.Gmail && !existing.IsDeleted {
			return apperrors.BadRequest("Email in use")
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryUsers) Update(_ context.Context, user auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return apperrors.NotFound()
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryUsers) ByID(_ context.Context, id uuid.UUID) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok || user.IsDeleted {
		return auth.User{}, apperrors.NotFound()
	}
	return user, nil
}

func (s *MemoryUsers) ByGmail(_ context.Context, gmail string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Gmail == gmail && !user.IsDeleted {
			return user, nil
		}
	}
	return auth.User{}, apperrors.NotFound()
}

func (s *MemoryUsers) List(_ context.Context) ([]auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]auth.User, 0, len(s.users))
	for _, user := range s.users {
		if !user.IsDeleted {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
