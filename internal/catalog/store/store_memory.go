package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"portal/internal/catalog/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

// InMemoryStore holds the whole catalog in maps guarded by one RWMutex.
type InMemoryStore struct {
	mu           sync.RWMutex
	departments  map[id.DepartmentID]*models.Department
	officials    map[id.OfficialID]*models.Official
	procedures   map[id.ProcedureID]*models.Procedure
	programs     map[id.ProgramID]*models.Program
	requirements map[id.RequirementID]*models.Requirement
	localities   map[id.LocalityID]*models.Locality
}

func New() *InMemoryStore {
	return &InMemoryStore{
		departments:  make(map[id.DepartmentID]*models.Department),
		officials:    make(map[id.OfficialID]*models.Official),
		procedures:   make(map[id.ProcedureID]*models.Procedure),
		programs:     make(map[id.ProgramID]*models.Program),
		requirements: make(map[id.RequirementID]*models.Requirement),
		localities:   make(map[id.LocalityID]*models.Locality),
	}
}

func clone[T any](v *T) *T {
	cp := *v
	return &cp
}

func inDepartments(dept id.DepartmentID, ids []id.DepartmentID) bool {
	return ids == nil || slices.Contains(ids, dept)
}

func nameContains(name, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

// Departments

func (s *InMemoryStore) CreateDepartment(_ context.Context, d *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[d.ID] = clone(d)
	return nil
}

func (s *InMemoryStore) UpdateDepartment(_ context.Context, d *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[d.ID]; !ok {
		return fmt.Errorf("department %s: %w", d.ID, sentinel.ErrNotFound)
	}
	s.departments[d.ID] = clone(d)
	return nil
}

func (s *InMemoryStore) FindDepartment(_ context.Context, deptID id.DepartmentID) (*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[deptID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

func (s *InMemoryStore) ListDepartments(_ context.Context, ids []id.DepartmentID) ([]*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		if inDepartments(d.ID, ids) {
			out = append(out, clone(d))
		}
	}
	slices.SortFunc(out, func(a, b *models.Department) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *InMemoryStore) CountDepartments(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.departments), nil
}

// Officials

func (s *InMemoryStore) CreateOfficial(_ context.Context, o *models.Official) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.officials {
		if existing.UserID == o.UserID {
			return fmt.Errorf("official for user %s: %w", o.UserID, sentinel.ErrConflict)
		}
	}
	s.officials[o.ID] = clone(o)
	return nil
}

func (s *InMemoryStore) FindOfficial(_ context.Context, officialID id.OfficialID) (*models.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.officials[officialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(o), nil
}

func (s *InMemoryStore) FindOfficialByUser(_ context.Context, userID id.UserID) (*models.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.officials {
		if o.UserID == userID {
			return clone(o), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListOfficials(_ context.Context, filter models.OfficialFilter) ([]*models.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Official, 0)
	for _, o := range s.officials {
		if inDepartments(o.DepartmentID, filter.DepartmentIDs) {
			out = append(out, clone(o))
		}
	}
	slices.SortFunc(out, func(a, b *models.Official) int { return cmp.Compare(a.FullName, b.FullName) })
	return out, nil
}

// Procedures

func (s *InMemoryStore) CreateProcedure(_ context.Context, p *models.Procedure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procedures[p.ID] = clone(p)
	return nil
}

func (s *InMemoryStore) UpdateProcedure(_ context.Context, p *models.Procedure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.procedures[p.ID]; !ok {
		return fmt.Errorf("procedure %s: %w", p.ID, sentinel.ErrNotFound)
	}
	s.procedures[p.ID] = clone(p)
	return nil
}

func (s *InMemoryStore) DeleteProcedure(_ context.Context, procID id.ProcedureID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.procedures[procID]; !ok {
		return fmt.Errorf("procedure %s: %w", procID, sentinel.ErrNotFound)
	}
	delete(s.procedures, procID)
	for reqID, r := range s.requirements {
		if r.ProcedureID != nil && *r.ProcedureID == procID {
			delete(s.requirements, reqID)
		}
	}
	return nil
}

func (s *InMemoryStore) FindProcedure(_ context.Context, procID id.ProcedureID) (*models.Procedure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.procedures[procID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemoryStore) ListProcedures(_ context.Context, filter models.OfferingFilter) ([]*models.Procedure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Procedure, 0)
	for _, p := range s.procedures {
		if !inDepartments(p.DepartmentID, filter.DepartmentIDs) ||
			(filter.ActiveOnly && !p.Active) ||
			(filter.Featured != nil && p.Featured != *filter.Featured) ||
			!nameContains(p.Name, filter.Search) {
			continue
		}
		out = append(out, clone(p))
	}
	slices.SortFunc(out, func(a, b *models.Procedure) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *InMemoryStore) ProcedureIDsByDepartment(_ context.Context, deptID id.DepartmentID) ([]id.ProcedureID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.ProcedureID
	for _, p := range s.procedures {
		if p.DepartmentID == deptID {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

// Programs

func (s *InMemoryStore) CreateProgram(_ context.Context, p *models.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[p.ID] = clone(p)
	return nil
}

func (s *InMemoryStore) UpdateProgram(_ context.Context, p *models.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[p.ID]; !ok {
		return fmt.Errorf("program %s: %w", p.ID, sentinel.ErrNotFound)
	}
	s.programs[p.ID] = clone(p)
	return nil
}

func (s *InMemoryStore) DeleteProgram(_ context.Context, progID id.ProgramID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[progID]; !ok {
		return fmt.Errorf("program %s: %w", progID, sentinel.ErrNotFound)
	}
	delete(s.programs, progID)
	for reqID, r := range s.requirements {
		if r.ProgramID != nil && *r.ProgramID == progID {
			delete(s.requirements, reqID)
		}
	}
	return nil
}

func (s *InMemoryStore) FindProgram(_ context.Context, progID id.ProgramID) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[progID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemoryStore) ListPrograms(_ context.Context, filter models.OfferingFilter) ([]*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Program, 0)
	for _, p := range s.programs {
		if !inDepartments(p.DepartmentID, filter.DepartmentIDs) ||
			(filter.ActiveOnly && !p.Active) ||
			(filter.Featured != nil && p.Featured != *filter.Featured) ||
			!nameContains(p.Name, filter.Search) {
			continue
		}
		out = append(out, clone(p))
	}
	slices.SortFunc(out, func(a, b *models.Program) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *InMemoryStore) ProgramIDsByDepartment(_ context.Context, deptID id.DepartmentID) ([]id.ProgramID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.ProgramID
	for _, p := range s.programs {
		if p.DepartmentID == deptID {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

// Requirements

func (s *InMemoryStore) CreateRequirement(_ context.Context, r *models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[r.ID] = clone(r)
	return nil
}

func (s *InMemoryStore) UpdateRequirement(_ context.Context, r *models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requirements[r.ID]; !ok {
		return fmt.Errorf("requirement %s: %w", r.ID, sentinel.ErrNotFound)
	}
	s.requirements[r.ID] = clone(r)
	return nil
}

func (s *InMemoryStore) DeleteRequirement(_ context.Context, reqID id.RequirementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requirements[reqID]; !ok {
		return fmt.Errorf("requirement %s: %w", reqID, sentinel.ErrNotFound)
	}
	delete(s.requirements, reqID)
	return nil
}

func (s *InMemoryStore) FindRequirement(_ context.Context, reqID id.RequirementID) (*models.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requirements[reqID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(r), nil
}

func (s *InMemoryStore) ListRequirements(_ context.Context, filter models.RequirementFilter) ([]models.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Requirement, 0)
	for _, r := range s.requirements {
		if filter.ProcedureID != nil && (r.ProcedureID == nil || *r.ProcedureID != *filter.ProcedureID) {
			continue
		}
		if filter.ProgramID != nil && (r.ProgramID == nil || *r.ProgramID != *filter.ProgramID) {
			continue
		}
		dept, active, ok := s.parentOf(r)
		if !ok || !inDepartments(dept, filter.DepartmentIDs) || (filter.ActiveOnly && !active) {
			continue
		}
		out = append(out, *r)
	}
	models.SortRequirements(out)
	return out, nil
}

func (s *InMemoryStore) parentOf(r *models.Requirement) (id.DepartmentID, bool, bool) {
	if r.ProcedureID != nil {
		if p, ok := s.procedures[*r.ProcedureID]; ok {
			return p.DepartmentID, p.Active, true
		}
	}
	if r.ProgramID != nil {
		if p, ok := s.programs[*r.ProgramID]; ok {
			return p.DepartmentID, p.Active, true
		}
	}
	return id.DepartmentID{}, false, false
}

// Localities

// AddLocality seeds a locality; Postgres gets them from migrations.
func (s *InMemoryStore) AddLocality(l *models.Locality) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localities[l.ID] = clone(l)
}

func (s *InMemoryStore) FindLocality(_ context.Context, locID id.LocalityID) (*models.Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.localities[locID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(l), nil
}

func (s *InMemoryStore) ListLocalities(_ context.Context, postalCode string) ([]*models.Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Locality, 0)
	for _, l := range s.localities {
		if postalCode == "" || l.PostalCode == postalCode {
			out = append(out, clone(l))
		}
	}
	slices.SortFunc(out, func(a, b *models.Locality) int {
		return cmp.Or(cmp.Compare(a.PostalCode, b.PostalCode), cmp.Compare(a.Neighborhood, b.Neighborhood))
	})
	return out, nil
}
