package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"portal/internal/citizens/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

// InMemoryStore keeps citizens in plaintext, indexed the way the unique
// hash columns index them in Postgres.
type InMemoryStore struct {
	mu       sync.RWMutex
	citizens map[id.CitizenID]*models.Citizen
	byUser   map[id.UserID]id.CitizenID
	byCURP   map[string]id.CitizenID
	byEmail  map[string]id.CitizenID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		citizens: make(map[id.CitizenID]*models.Citizen),
		byUser:   make(map[id.UserID]id.CitizenID),
		byCURP:   make(map[string]id.CitizenID),
		byEmail:  make(map[string]id.CitizenID),
	}
}

func curpKey(curp string) string   { return strings.ToUpper(strings.TrimSpace(curp)) }
func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func clone(c *models.Citizen) *models.Citizen {
	cp := *c
	if c.LocalityID != nil {
		loc := *c.LocalityID
		cp.LocalityID = &loc
	}
	return &cp
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCURP[curpKey(c.CURP)]; ok {
		return models.ErrDuplicateCURP
	}
	if _, ok := s.byEmail[emailKey(c.Email)]; ok {
		return models.ErrDuplicateEmail
	}
	if _, ok := s.byUser[c.UserID]; ok {
		return sentinel.ErrConflict
	}
	s.citizens[c.ID] = clone(c)
	s.byUser[c.UserID] = c.ID
	s.byCURP[curpKey(c.CURP)] = c.ID
	s.byEmail[emailKey(c.Email)] = c.ID
	return nil
}

// Update rewrites the record. CURP and user are immutable; the email index
// follows the new address.
func (s *InMemoryStore) Update(_ context.Context, c *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.citizens[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	newKey := emailKey(c.Email)
	if owner, taken := s.byEmail[newKey]; taken && owner != c.ID {
		return models.ErrDuplicateEmail
	}
	delete(s.byEmail, emailKey(cur.Email))
	s.byEmail[newKey] = c.ID
	s.citizens[c.ID] = clone(c)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, citizenID id.CitizenID) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(citizenID)
}

func (s *InMemoryStore) FindByUserID(_ context.Context, userID id.UserID) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.byUser[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.lookup(cid)
}

func (s *InMemoryStore) FindByCURP(_ context.Context, curp string) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.byCURP[curpKey(curp)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.lookup(cid)
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.lookup(cid)
}

func (s *InMemoryStore) lookup(citizenID id.CitizenID) (*models.Citizen, error) {
	c, ok := s.citizens[citizenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(c), nil
}

func (s *InMemoryStore) List(_ context.Context, filter models.Filter) ([]*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.TrimSpace(filter.Search)
	var out []*models.Citizen
	for _, c := range s.citizens {
		if search != "" && !matches(c, search) {
			continue
		}
		out = append(out, clone(c))
	}
	slices.SortFunc(out, func(a, b *models.Citizen) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(a.ID.String(), b.ID.String())
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return page(out, filter.Offset, filter.Limit), nil
}

func matches(c *models.Citizen, search string) bool {
	if curpKey(c.CURP) == curpKey(search) || emailKey(c.Email) == emailKey(search) {
		return true
	}
	return strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(search))
}

func page(in []*models.Citizen, offset, limit int) []*models.Citizen {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.citizens), nil
}
