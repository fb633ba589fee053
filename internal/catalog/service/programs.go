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

func (s *Service) ListPrograms(ctx context.Context, actor policy.Actor, q OfferingQuery) ([]*models.Program, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpCatalogRead)
	if err != nil {
		return nil, err
	}
	if view.empty {
		return []*models.Program{}, nil
	}
	progs, err := s.store.ListPrograms(ctx, view.offeringFilter(q))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list programs")
	}
	return progs, nil
}

func (s *Service) GetProgram(ctx context.Context, actor policy.Actor, progID id.ProgramID) (*models.Program, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpCatalogRead)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindProgram(ctx, progID)
	if err != nil {
		return nil, notFound(err, "programa no encontrado", "failed to load program")
	}
	if !view.allows(p.DepartmentID, p.Active) {
		return nil, dErrors.New(dErrors.CodeNotFound, "programa no encontrado")
	}
	return p, nil
}

func (s *Service) CreateProgram(ctx context.Context, actor policy.Actor, in models.ProgramInput) (*models.Program, error) {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return nil, err
	}
	dept, err := s.targetDepartment(ctx, scope, own, in.DepartmentID, nil)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	p := &models.Program{
		ID:           id.ProgramID(uuid.New()),
		DepartmentID: dept,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyProgram(p, in)
	if p.Name == "" {
		return nil, dErrors.Field("nombre", "este campo es obligatorio")
	}
	if err := s.store.CreateProgram(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create program")
	}
	return p, nil
}

func (s *Service) UpdateProgram(ctx context.Context, actor policy.Actor, progID id.ProgramID, in models.ProgramInput) (*models.Program, error) {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindProgram(ctx, progID)
	if err != nil {
		return nil, notFound(err, "programa no encontrado", "failed to load program")
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, p.DepartmentID); err != nil {
		return nil, err
	}
	dept, err := s.targetDepartment(ctx, scope, own, in.DepartmentID, &p.DepartmentID)
	if err != nil {
		return nil, err
	}
	p.DepartmentID = dept
	applyProgram(p, in)
	if p.Name == "" {
		return nil, dErrors.Field("nombre", "este campo no puede estar vacío")
	}
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.UpdateProgram(ctx, p); err != nil {
		return nil, notFound(err, "programa no encontrado", "failed to update program")
	}
	return p, nil
}

func (s *Service) DeleteProgram(ctx context.Context, actor policy.Actor, progID id.ProgramID) error {
	scope, own, err := s.resolveWrite(ctx, actor, policy.OpCatalogWrite)
	if err != nil {
		return err
	}
	p, err := s.store.FindProgram(ctx, progID)
	if err != nil {
		return notFound(err, "programa no encontrado", "failed to load program")
	}
	if err := policy.AuthorizeDepartmentWrite(scope, own, p.DepartmentID); err != nil {
		return err
	}
	if err := s.store.DeleteProgram(ctx, progID); err != nil {
		return deleteErr(err, "programa")
	}
	return nil
}

func applyProgram(p *models.Program, in models.ProgramInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
}
