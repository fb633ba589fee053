package service

import (
	"context"
	"errors"

	"portal/internal/catalog/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
)

// ResolveOffering loads the procedure or program an application refers to,
// with its requirements in display order. Exactly one of procID and progID
// must be set. Inactive offerings are returned; callers decide whether that
// matters.
func (s *Service) ResolveOffering(ctx context.Context, procID *id.ProcedureID, progID *id.ProgramID) (*models.Offering, error) {
	if (procID == nil) == (progID == nil) {
		return nil, dErrors.Validation("indique un trámite o un programa, pero no ambos", map[string]string{
			"tramite":  "indique un trámite o un programa",
			"programa": "indique un trámite o un programa",
		})
	}
	var o models.Offering
	filter := models.RequirementFilter{}
	if procID != nil {
		p, err := s.store.FindProcedure(ctx, *procID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Field("tramite", "el trámite no existe")
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load procedure")
		}
		o = models.Offering{
			Kind:         models.OfferingProcedure,
			ProcedureID:  &p.ID,
			DepartmentID: p.DepartmentID,
			Name:         p.Name,
			Active:       p.Active,
		}
		filter.ProcedureID = &p.ID
	} else {
		g, err := s.store.FindProgram(ctx, *progID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Field("programa", "el programa no existe")
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load program")
		}
		o = models.Offering{
			Kind:         models.OfferingProgram,
			ProgramID:    &g.ID,
			DepartmentID: g.DepartmentID,
			Name:         g.Name,
			Active:       g.Active,
		}
		filter.ProgramID = &g.ID
	}
	reqs, err := s.store.ListRequirements(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requirements")
	}
	models.SortRequirements(reqs)
	o.Requirements = reqs
	return &o, nil
}

// DepartmentOfferingIDs lists every procedure and program owned by a
// department, active or not.
func (s *Service) DepartmentOfferingIDs(ctx context.Context, deptID id.DepartmentID) ([]id.ProcedureID, []id.ProgramID, error) {
	procs, err := s.store.ProcedureIDsByDepartment(ctx, deptID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list department procedures")
	}
	progs, err := s.store.ProgramIDsByDepartment(ctx, deptID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list department programs")
	}
	return procs, progs, nil
}
