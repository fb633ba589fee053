package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"portal/internal/catalog/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// OfferingQuery holds caller-supplied list filters for procedures and programs.
type OfferingQuery struct {
	DepartmentID *id.DepartmentID
	Featured     *bool
	Search       string
}

func (v readView) offeringFilter(q OfferingQuery) models.OfferingFilter {
	return models.OfferingFilter{
		DepartmentIDs: v.mergeDepartments(q.DepartmentID),
		ActiveOnly:    v.activeOnly,
		Featured:      q.Featured,
		Search:        strings.TrimSpace(q.Search),
	}
}

func (s *Service) ListProcedures(ctx context.Context, actor policy.Actor, q OfferingQuery) ([]*models.Procedure, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpCatalogRead)
	if err != nil {
		return nil, err
	}
	if view.empty {
		return []*models.Procedure{}, nil
	}
	procs, err := s.store.ListProcedures(ctx, view.offeringFilter(q))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list procedures")
	}
	return procs, nil
}

// GetProcedure returns one procedure if the actor may see it.
func (s *Service) GetProcedure(ctx context.Context, actor policy.Actor, procID id.ProcedureID) (*models.Procedure, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpCatalogRead)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindProcedure(ctx, procID)
	if err != nil {
		return nil, notFound(err, "trámite no encontrado", "failed to load procedure")
	}
	if !view.allows(p.DepartmentID, p.Active) {
		return nil, dErrors.New(dErrors.CodeNotFound, "trámite no encontrado")
	}
	return p, nil
}

func (v readView) allows(dept id.DepartmentID, active bool) bool {
	if v.empty || (v.activeOnly && !active) {
		return false
	}
	if v.departments == nil {
		return true
	}
	for _, d := range v.departments {
		if d == dept {
			return true
		}
	}
	return false
}

func (s *Service) CreateProcedure(ctx context.Context, actor policy.Actor, in models.ProcedureInput) (*models.Procedure, error) {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return nil, err
	}
	dept, err := s.targetDepartment(ctx, scope, own, in.DepartmentID, nil)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	p := &models.Procedure{
		ID:           id.ProcedureID(uuid.New()),
		DepartmentID: dept,
		Type:         models.ProcedureGeneralRequest,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyProcedure(p, in)
	if p.Name == "" {
		return nil, dErrors.Field("nombre", "este campo es obligatorio")
	}
	if err := s.store.CreateProcedure(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create procedure")
	}
	return p, nil
}

func (s *Service) UpdateProcedure(ctx context.Context, actor policy.Actor, procID id.ProcedureID, in models.ProcedureInput) (*models.Procedure, error) {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindProcedure(ctx, procID)
	if err != nil {
		return nil, notFound(err, "trámite no encontrado", "failed to load procedure")
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, p.DepartmentID); err != nil {
		return nil, err
	}
	dept, err := s.targetDepartment(ctx, scope, own, in.DepartmentID, &p.DepartmentID)
	if err != nil {
		return nil, err
	}
	p.DepartmentID = dept
	applyProcedure(p, in)
	if p.Name == "" {
		return nil, dErrors.Field("nombre", "este campo no puede estar vacío")
	}
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.UpdateProcedure(ctx, p); err != nil {
		return nil, notFound(err, "trámite no encontrado", "failed to update procedure")
	}
	return p, nil
}

func (s *Service) DeleteProcedure(ctx context.Context, actor policy.Actor, procID id.ProcedureID) error {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return err
	}
	p, err := s.store.FindProcedure(ctx, procID)
	if err != nil {
		return notFound(err, "trámite no encontrado", "failed to load procedure")
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, p.DepartmentID); err != nil {
		return err
	}
	if err := s.store.DeleteProcedure(ctx, procID); err != nil {
		return deleteErr(err, "trámite")
	}
	return nil
}

func applyProcedure(p *models.Procedure, in models.ProcedureInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
}

// targetDepartment picks the department a write lands in. Officials always
// write into their own department whatever they requested; administrators
// choose freely but the department must exist. current is the existing
// value on update.
func (s *Service) targetDepartment(ctx context.Context, scope policy.Scope, own *id.DepartmentID, requested, current *id.DepartmentID) (id.DepartmentID, error) {
	if scope == policy.ScopeDepartment {
		return *own, nil
	}
	if requested == nil {
		if current != nil {
			return *current, nil
		}
		return id.DepartmentID{}, dErrors.Field("dependencia", "este campo es obligatorio")
	}
	if _, err := s.GetDepartment(ctx, *requested); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return id.DepartmentID{}, dErrors.Field("dependencia", "la dependencia no existe")
		}
		return id.DepartmentID{}, err
	}
	return *requested, nil
}
