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

func (s *Service) ListDepartments(ctx context.Context, actor policy.Actor) ([]*models.Department, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpCatalogRead)
	if err != nil {
		return nil, err
	}
	if view.empty {
		return []*models.Department{}, nil
	}
	depts, err := s.store.ListDepartments(ctx, view.departments)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list departments")
	}
	return depts, nil
}

func (s *Service) GetDepartment(ctx context.Context, deptID id.DepartmentID) (*models.Department, error) {
	d, err := s.store.FindDepartment(ctx, deptID)
	if err != nil {
		return nil, notFound(err, "dependencia no encontrada", "failed to load department")
	}
	return d, nil
}

func (s *Service) CreateDepartment(ctx context.Context, actor policy.Actor, in models.DepartmentInput) (*models.Department, error) {
	if _, err := policy.Authorize(actor, policy.OpDepartmentWrite); err != nil {
		return nil, err
	}
	d := &models.Department{
		ID:        id.DepartmentID(uuid.New()),
		Type:      models.DepartmentOther,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.applyDepartment(ctx, d, in, true); err != nil {
		return nil, err
	}
	if err := s.store.CreateDepartment(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create department")
	}
	return d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, actor policy.Actor, deptID id.DepartmentID, in models.DepartmentInput) (*models.Department, error) {
	if _, err := policy.Authorize(actor, policy.OpDepartmentWrite); err != nil {
		return nil, err
	}
	d, err := s.GetDepartment(ctx, deptID)
	if err != nil {
		return nil, err
	}
	if err := s.applyDepartment(ctx, d, in, false); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDepartment(ctx, d); err != nil {
		return nil, notFound(err, "dependencia no encontrada", "failed to update department")
	}
	return d, nil
}

func (s *Service) applyDepartment(ctx context.Context, d *models.Department, in models.DepartmentInput, creating bool) error {
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if creating && d.Name == "" {
		return dErrors.Field("nombre", "este campo es obligatorio")
	}
	if in.Acronym != nil {
		d.Acronym = strings.ToUpper(strings.TrimSpace(*in.Acronym))
	}
	if in.Type != nil {
		d.Type = *in.Type
	}
	if in.RepresentativeID != nil {
		rep, err := s.store.FindOfficial(ctx, *in.RepresentativeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Field("representante", "el funcionario no existe")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load official")
		}
		if rep.DepartmentID != d.ID {
			return dErrors.Field("representante", "el representante debe pertenecer a la dependencia")
		}
		d.RepresentativeID = &rep.ID
	}
	return nil
}

// CountDepartments backs the statistics endpoint.
func (s *Service) CountDepartments(ctx context.Context) (int, error) {
	n, err := s.store.CountDepartments(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count departments")
	}
	return n, nil
}
