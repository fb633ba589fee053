package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"portal/internal/auth/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

// InMemoryUserStore keeps accounts in a map guarded by a mutex. Stored
// values are copies so callers cannot mutate store state.
type InMemoryUserStore struct {
	mu         sync.RWMutex
	users      map[id.UserID]*models.User
	byUsername map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:      make(map[id.UserID]*models.User),
		byUsername: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[user.Username]; taken {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrConflict)
	}
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("user %s: %w", user.ID, sentinel.ErrConflict)
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, sentinel.ErrNotFound)
	}
	if user.Username != existing.Username {
		if _, taken := s.byUsername[user.Username]; taken {
			return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrConflict)
		}
		delete(s.byUsername, existing.Username)
		s.byUsername[user.Username] = user.ID
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryUserStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	delete(s.byUsername, existing.Username)
	delete(s.users, userID)
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byUsername[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.users[userID]
	return &cp, nil
}

func (s *InMemoryUserStore) List(_ context.Context, filter models.UserFilter) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Active != nil && u.Active != *filter.Active {
			continue
		}
		if search != "" && !matches(u, search) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *InMemoryUserStore) CountByRole(_ context.Context) (map[id.Role]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.Role]int)
	for _, u := range s.users {
		if u.Active {
			counts[u.Role]++
		}
	}
	return counts, nil
}

func matches(u *models.User, search string) bool {
	for _, field := range []string{u.Username, u.Email, u.FirstName, u.LastName} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
