package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"portal/internal/catalog/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

// RequirementQuery selects the requirements of one parent, or all visible
// requirements when both are nil.
type RequirementQuery struct {
	ProcedureID *id.ProcedureID
	ProgramID   *id.ProgramID
}

func (s *Service) ListRequirements(ctx context.Context, actor policy.Actor, q RequirementQuery) ([]models.Requirement, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpCatalogRead)
	if err != nil {
		return nil, err
	}
	if view.empty {
		return []models.Requirement{}, nil
	}
	reqs, err := s.store.ListRequirements(ctx, models.RequirementFilter{
		ProcedureID:   q.ProcedureID,
		ProgramID:     q.ProgramID,
		DepartmentIDs: view.departments,
		ActiveOnly:    view.activeOnly,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requirements")
	}
	models.SortRequirements(reqs)
	return reqs, nil
}

func (s *Service) CreateRequirement(ctx context.Context, actor policy.Actor, in models.RequirementInput) (*models.Requirement, error) {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return nil, err
	}
	if err := validateParent(in.ProcedureID, in.ProgramID); err != nil {
		return nil, err
	}
	dept, err := s.parentDepartment(ctx, in.ProcedureID, in.ProgramID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, dept); err != nil {
		return nil, err
	}
	r := &models.Requirement{
		ID:          id.RequirementID(uuid.New()),
		ProcedureID: in.ProcedureID,
		ProgramID:   in.ProgramID,
		Mandatory:   true,
		CreatedAt:   requestcontext.Now(ctx),
	}
	applyRequirement(r, in)
	if r.Name == "" {
		return nil, dErrors.Field("nombre", "este campo es obligatorio")
	}
	if err := s.store.CreateRequirement(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create requirement")
	}
	return r, nil
}

// UpdateRequirement edits a requirement. Moving it to another parent is
// allowed when the actor may write both the current and the new parent.
func (s *Service) UpdateRequirement(ctx context.Context, actor policy.Actor, reqID id.RequirementID, in models.RequirementInput) (*models.Requirement, error) {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return nil, err
	}
	r, err := s.store.FindRequirement(ctx, reqID)
	if err != nil {
		return nil, notFound(err, "requisito no encontrado", "failed to load requirement")
	}
	dept, err := s.parentDepartment(ctx, r.ProcedureID, r.ProgramID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, dept); err != nil {
		return nil, err
	}
	if in.ProcedureID != nil || in.ProgramID != nil {
		if err := validateParent(in.ProcedureID, in.ProgramID); err != nil {
			return nil, err
		}
		target, err := s.parentDepartment(ctx, in.ProcedureID, in.ProgramID)
		if err != nil {
			return nil, err
		}
		if err := policy.AuthorizeDepartmentWrite(scope, own, target); err != nil {
			return nil, err
		}
		r.ProcedureID, r.ProgramID = in.ProcedureID, in.ProgramID
	}
	applyRequirement(r, in)
	if r.Name == "" {
		return nil, dErrors.Field("nombre", "este campo no puede estar vacío")
	}
	if err := s.store.UpdateRequirement(ctx, r); err != nil {
		return nil, notFound(err, "requisito no encontrado", "failed to update requirement")
	}
	return r, nil
}

func (s *Service) DeleteRequirement(ctx context.Context, actor policy.Actor, reqID id.RequirementID) error {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return err
	}
	r, err := s.store.FindRequirement(ctx, reqID)
	if err != nil {
		return notFound(err, "requisito no encontrado", "failed to load requirement")
	}
	dept, err := s.parentDepartment(ctx, r.ProcedureID, r.ProgramID)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, dept); err != nil {
		return err
	}
	if err := s.store.DeleteRequirement(ctx, reqID); err != nil {
		return deleteErr(err, "requisito")
	}
	return nil
}

func validateParent(proc *id.ProcedureID, prog *id.ProgramID) error {
	switch {
	case proc == nil && prog == nil:
		return dErrors.Validation("el requisito debe pertenecer a un trámite o a un programa", map[string]string{
			"tramite":  "indique un trámite o un programa",
			"programa": "indique un trámite o un programa",
		})
	case proc != nil && prog != nil:
		return dErrors.Validation("el requisito no puede pertenecer a un trámite y a un programa a la vez", map[string]string{
			"tramite":  "indique solo uno",
			"programa": "indique solo uno",
		})
	}
	return nil
}

func (s *Service) parentDepartment(ctx context.Context, proc *id.ProcedureID, prog *id.ProgramID) (id.DepartmentID, error) {
	if proc != nil {
		p, err := s.store.FindProcedure(ctx, *proc)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return id.DepartmentID{}, dErrors.Field("tramite", "el trámite no existe")
			}
			return id.DepartmentID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load procedure")
		}
		return p.DepartmentID, nil
	}
	g, err := s.store.FindProgram(ctx, *prog)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.DepartmentID{}, dErrors.Field("programa", "el programa no existe")
		}
		return id.DepartmentID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load program")
	}
	return g.DepartmentID, nil
}

func applyRequirement(r *models.Requirement, in models.RequirementInput) {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Mandatory != nil {
		r.Mandatory = *in.Mandatory
	}
	if in.DocumentRequired != nil {
		r.DocumentRequired = *in.DocumentRequired
	}
}
