package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"portal/internal/applications/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

// InMemoryStore keeps applications and their children in maps guarded by one
// RWMutex. Execute holds the write lock for the whole callback.
type InMemoryStore struct {
	mu           sync.RWMutex
	seq          int64
	applications map[id.ApplicationID]*models.Application
	history      map[id.ApplicationID][]models.HistoryEntry
	documents    map[id.ApplicationID][]*models.Document
	assignments  map[id.AssignmentID]*models.Assignment
}

func New() *InMemoryStore {
	return &InMemoryStore{
		applications: make(map[id.ApplicationID]*models.Application),
		history:      make(map[id.ApplicationID][]models.HistoryEntry),
		documents:    make(map[id.ApplicationID][]*models.Document),
		assignments:  make(map[id.AssignmentID]*models.Assignment),
	}
}

func cloneApplication(a *models.Application) *models.Application {
	cp := *a
	if a.ProcedureID != nil {
		p := *a.ProcedureID
		cp.ProcedureID = &p
	}
	if a.ProgramID != nil {
		p := *a.ProgramID
		cp.ProgramID = &p
	}
	return &cp
}

func clone[T any](v *T) *T {
	cp := *v
	return &cp
}

func (s *InMemoryStore) NextFolio(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return models.Folio(s.seq), nil
}

func (s *InMemoryStore) Create(_ context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.applications {
		if existing.Folio == a.Folio {
			return sentinel.ErrConflict
		}
	}
	s.applications[a.ID] = cloneApplication(a)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.applications[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneApplication(a), nil
}

// Execute runs validate and then mutate on the stored application under the
// write lock and saves the result. A validate error leaves the record as it
// was.
func (s *InMemoryStore) Execute(_ context.Context, appID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.applications[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneApplication(stored)
	if validate != nil {
		if err := validate(working); err != nil {
			return nil, err
		}
	}
	mutate(working)
	s.applications[appID] = working
	return cloneApplication(working), nil
}

// activeOfficials must be called with the lock held.
func (s *InMemoryStore) activeOfficials(appID id.ApplicationID) []id.OfficialID {
	var out []id.OfficialID
	for _, as := range s.assignments {
		if as.ApplicationID == appID && as.Active {
			out = append(out, as.OfficialID)
		}
	}
	return out
}

func (s *InMemoryStore) visible(vis models.Visibility) []*models.Application {
	var out []*models.Application
	for _, a := range s.applications {
		if vis.Matches(a, s.activeOfficials(a.ID)) {
			out = append(out, a)
		}
	}
	return out
}

func (s *InMemoryStore) List(_ context.Context, vis models.Visibility, filter models.Filter) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	folio := strings.ToUpper(strings.TrimSpace(filter.Folio))
	var out []*models.Application
	for _, a := range s.visible(vis) {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, a.Status) {
			continue
		}
		if folio != "" && !strings.Contains(strings.ToUpper(a.Folio), folio) {
			continue
		}
		out = append(out, cloneApplication(a))
	}
	slices.SortFunc(out, func(a, b *models.Application) int {
		ta, tb := a.CreatedAt, b.CreatedAt
		if filter.RecentlyUpdated {
			ta, tb = a.UpdatedAt, b.UpdatedAt
		}
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		return cmp.Compare(b.Folio, a.Folio)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context, vis models.Visibility) (models.StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := models.NewStatusCounts()
	for _, a := range s.visible(vis) {
		counts[a.Status]++
	}
	return counts, nil
}

func (s *InMemoryStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.applications {
		if !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// CountCreatedByDay groups the applications created since the given instant
// by UTC creation day, oldest first. Days without applications are omitted.
func (s *InMemoryStore) CountCreatedByDay(_ context.Context, since time.Time) ([]models.DayCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDay := map[time.Time]*models.DayCounts{}
	for _, a := range s.applications {
		if a.CreatedAt.Before(since) {
			continue
		}
		day := a.CreatedAt.UTC().Truncate(24 * time.Hour)
		c, ok := byDay[day]
		if !ok {
			c = &models.DayCounts{Day: day}
			byDay[day] = c
		}
		c.Created++
		switch a.Status {
		case id.StatusApproved:
			c.Approved++
		case id.StatusRejected:
			c.Rejected++
		}
	}
	out := make([]models.DayCounts, 0, len(byDay))
	for _, c := range byDay {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b models.DayCounts) int { return a.Day.Compare(b.Day) })
	return out, nil
}

// AverageResponseDays averages, over resolved applications, the time from
// creation to the latest transition into a terminal status.
func (s *InMemoryStore) AverageResponseDays(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total time.Duration
	resolved := 0
	for appID, entries := range s.history {
		a, ok := s.applications[appID]
		if !ok {
			continue
		}
		var last time.Time
		for _, e := range entries {
			if e.ChangeType == models.ChangeStatus && e.Status.IsTerminal() && e.CreatedAt.After(last) {
				last = e.CreatedAt
			}
		}
		if last.IsZero() {
			continue
		}
		total += last.Sub(a.CreatedAt)
		resolved++
	}
	if resolved == 0 {
		return 0, nil
	}
	return (total / time.Duration(resolved)).Hours() / 24, nil
}

// History

func (s *InMemoryStore) AppendHistory(_ context.Context, e models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[e.ApplicationID] = append(s.history[e.ApplicationID], e)
	return nil
}

// ListHistory returns the entries newest first.
func (s *InMemoryStore) ListHistory(_ context.Context, appID id.ApplicationID) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := slices.Clone(s.history[appID])
	slices.Reverse(entries)
	slices.SortStableFunc(entries, func(a, b models.HistoryEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return entries, nil
}

// Documents

func (s *InMemoryStore) AddDocument(_ context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[d.ApplicationID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.documents[d.ApplicationID] {
		if existing.RequirementID == d.RequirementID {
			return sentinel.ErrConflict
		}
	}
	s.documents[d.ApplicationID] = append(s.documents[d.ApplicationID], clone(d))
	return nil
}

func (s *InMemoryStore) ListDocuments(_ context.Context, appID id.ApplicationID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Document, 0, len(s.documents[appID]))
	for _, d := range s.documents[appID] {
		out = append(out, clone(d))
	}
	return out, nil
}

// Assignments

// DeactivateAssignments switches off the active assignments of an
// application within one department and returns how many changed.
func (s *InMemoryStore) DeactivateAssignments(_ context.Context, appID id.ApplicationID, deptID id.DepartmentID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, as := range s.assignments {
		if as.ApplicationID == appID && as.DepartmentID == deptID && as.Active {
			as.Active = false
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CreateAssignment(_ context.Context, as *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[as.ApplicationID]; !ok {
		return sentinel.ErrNotFound
	}
	s.assignments[as.ID] = clone(as)
	return nil
}

func sortAssignments(list []*models.Assignment) {
	slices.SortFunc(list, func(a, b *models.Assignment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func (s *InMemoryStore) ListAssignments(_ context.Context, appID id.ApplicationID) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Assignment
	for _, as := range s.assignments {
		if as.ApplicationID == appID {
			out = append(out, clone(as))
		}
	}
	sortAssignments(out)
	return out, nil
}

// ActiveAssignmentsFor lists the official's active assignments, newest first.
func (s *InMemoryStore) ActiveAssignmentsFor(_ context.Context, officialID id.OfficialID) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Assignment
	for _, as := range s.assignments {
		if as.OfficialID == officialID && as.Active {
			out = append(out, clone(as))
		}
	}
	sortAssignments(out)
	return out, nil
}
