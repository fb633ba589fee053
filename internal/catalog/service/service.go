package service

import (
	"context"
	"errors"
	"log/slog"

	"portal/internal/catalog/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
)

type DepartmentStore interface {
	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, d *models.Department) error
	FindDepartment(ctx context.Context, deptID id.DepartmentID) (*models.Department, error)
	ListDepartments(ctx context.Context, ids []id.DepartmentID) ([]*models.Department, error)
	CountDepartments(ctx context.Context) (int, error)
}

type OfficialStore interface {
	CreateOfficial(ctx context.Context, o *models.Official) error
	FindOfficial(ctx context.Context, officialID id.OfficialID) (*models.Official, error)
	FindOfficialByUser(ctx context.Context, userID id.UserID) (*models.Official, error)
	ListOfficials(ctx context.Context, filter models.OfficialFilter) ([]*models.Official, error)
}

type ProcedureStore interface {
	CreateProcedure(ctx context.Context, p *models.Procedure) error
	UpdateProcedure(ctx context.Context, p *models.Procedure) error
	DeleteProcedure(ctx context.Context, procID id.ProcedureID) error
	FindProcedure(ctx context.Context, procID id.ProcedureID) (*models.Procedure, error)
	ListProcedures(ctx context.Context, filter models.OfferingFilter) ([]*models.Procedure, error)
	ProcedureIDsByDepartment(ctx context.Context, deptID id.DepartmentID) ([]id.ProcedureID, error)
}

type ProgramStore interface {
	CreateProgram(ctx context.Context, p *models.Program) error
	UpdateProgram(ctx context.Context, p *models.Program) error
	DeleteProgram(ctx context.Context, progID id.ProgramID) error
	FindProgram(ctx context.Context, progID id.ProgramID) (*models.Program, error)
	ListPrograms(ctx context.Context, filter models.OfferingFilter) ([]*models.Program, error)
	ProgramIDsByDepartment(ctx context.Context, deptID id.DepartmentID) ([]id.ProgramID, error)
}

type RequirementStore interface {
	CreateRequirement(ctx context.Context, r *models.Requirement) error
	UpdateRequirement(ctx context.Context, r *models.Requirement) error
	DeleteRequirement(ctx context.Context, reqID id.RequirementID) error
	FindRequirement(ctx context.Context, reqID id.RequirementID) (*models.Requirement, error)
	ListRequirements(ctx context.Context, filter models.RequirementFilter) ([]models.Requirement, error)
}

type LocalityStore interface {
	FindLocality(ctx context.Context, locID id.LocalityID) (*models.Locality, error)
	ListLocalities(ctx context.Context, postalCode string) ([]*models.Locality, error)
}

// Store is the full catalog persistence surface.
type Store interface {
	DepartmentStore
	OfficialStore
	ProcedureStore
	ProgramStore
	RequirementStore
	LocalityStore
}

// Service manages reference data. Officials are confined to their own
// department; citizens and anonymous callers only see active entries.
type Service struct {
	store  Store
	users  UserDirectory
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, users UserDirectory, opts ...Option) *Service {
	s := &Service{store: store, users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OfficialForUser returns the Official profile linked to userID, or nil when
// the account has none.
func (s *Service) OfficialForUser(ctx context.Context, userID id.UserID) (*models.Official, error) {
	o, err := s.store.FindOfficialByUser(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load official profile")
	}
	return o, nil
}

// readView is how a read operation restricts the catalog for one actor.
type readView struct {
	departments []id.DepartmentID
	activeOnly  bool
	empty       bool
}

func (s *Service) resolveRead(ctx context.Context, actor policy.Actor, op policy.Operation) (readView, error) {
	scope, err := policy.Authorize(actor, op)
	if err != nil {
		return readView{}, err
	}
	switch scope {
	case policy.ScopeAll:
		return readView{}, nil
	case policy.ScopeDepartment:
		own, err := s.OfficialForUser(ctx, actor.UserID)
		if err != nil {
			return readView{}, err
		}
		if own == nil {
			return readView{empty: true}, nil
		}
		return readView{departments: []id.DepartmentID{own.DepartmentID}}, nil
	default:
		return readView{activeOnly: true}, nil
	}
}

// resolveWrite returns the scope for a department-owned write and the
// actor's department when the scope is ScopeDepartment.
func (s *Service) resolveWrite(ctx context.Context, actor policy.Actor, op policy.Operation) (policy.Scope, *id.DepartmentID, error) {
	scope, err := policy.Authorize(actor, op)
	if err != nil {
		return policy.ScopeNone, nil, err
	}
	if scope != policy.ScopeDepartment {
		return scope, nil, nil
	}
	own, err := s.OfficialForUser(ctx, actor.UserID)
	if err != nil {
		return policy.ScopeNone, nil, err
	}
	if own == nil {
		return policy.ScopeNone, nil, dErrors.New(dErrors.CodeForbidden, "el usuario no tiene un perfil de funcionario")
	}
	return scope, &own.DepartmentID, nil
}

// mergeDepartments intersects a caller-supplied department filter with the
// view restriction.
func (v readView) mergeDepartments(requested *id.DepartmentID) []id.DepartmentID {
	if requested == nil {
		return v.departments
	}
	if v.departments == nil {
		return []id.DepartmentID{*requested}
	}
	for _, d := range v.departments {
		if d == *requested {
			return []id.DepartmentID{d}
		}
	}
	return []id.DepartmentID{}
}

func notFound(err error, msg, failure string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, failure)
}

func deleteErr(err error, what string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, what+" no encontrado")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "no se puede eliminar: "+what+" tiene registros asociados")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete "+what)
	}
}
