package store

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"portal/internal/notifications/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu            sync.RWMutex
	notifications map[id.NotificationID]*models.Notification
}

func New() *InMemoryStore {
	return &InMemoryStore{notifications: make(map[id.NotificationID]*models.Notification)}
}

func clone(n *models.Notification) *models.Notification {
	cp := *n
	cp.Metadata = maps.Clone(n.Metadata)
	if n.ReadAt != nil {
		at := *n.ReadAt
		cp.ReadAt = &at
	}
	return &cp
}

func (s *InMemoryStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = clone(n)
	return nil
}

func (s *InMemoryStore) MarkEmailSent(_ context.Context, notifID id.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notifID]
	if !ok {
		return sentinel.ErrNotFound
	}
	n.EmailSent = true
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, notifID id.NotificationID) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[notifID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(n), nil
}

// ListByUser returns newest first.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, filter models.Filter) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if filter.Read != nil && n.Read != *filter.Read {
			continue
		}
		out = append(out, clone(n))
	}
	slices.SortFunc(out, func(a, b *models.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (s *InMemoryStore) CountUnread(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, notif := range s.notifications {
		if notif.UserID == userID && !notif.Read {
			n++
		}
	}
	return n, nil
}

// MarkRead sets the read flag of the user's notification. An already read
// notification keeps its original timestamp.
func (s *InMemoryStore) MarkRead(_ context.Context, userID id.UserID, notifID id.NotificationID, at time.Time) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notifID]
	if !ok || n.UserID != userID {
		return nil, sentinel.ErrNotFound
	}
	if !n.Read {
		n.Read = true
		n.ReadAt = &at
	}
	return clone(n), nil
}

func (s *InMemoryStore) MarkAllRead(_ context.Context, userID id.UserID, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			readAt := at
			n.ReadAt = &readAt
			updated++
		}
	}
	return updated, nil
}
