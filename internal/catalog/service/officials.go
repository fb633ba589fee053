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

// ListOfficials lists profiles visible to the actor, optionally narrowed to
// one department.
func (s *Service) ListOfficials(ctx context.Context, actor policy.Actor, department *id.DepartmentID) ([]*models.Official, error) {
	view, err := s.resolveRead(ctx, actor, policy.OpOfficialRead)
	if err != nil {
		return nil, err
	}
	if view.empty {
		return []*models.Official{}, nil
	}
	officials, err := s.store.ListOfficials(ctx, models.OfficialFilter{DepartmentIDs: view.mergeDepartments(department)})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officials")
	}
	return officials, nil
}

func (s *Service) GetOfficial(ctx context.Context, officialID id.OfficialID) (*models.Official, error) {
	o, err := s.store.FindOfficial(ctx, officialID)
	if err != nil {
		return nil, notFound(err, "funcionario no encontrado", "failed to load official")
	}
	return o, nil
}

// CreateOfficial links a staff account to a department.
func (s *Service) CreateOfficial(ctx context.Context, actor policy.Actor, in models.OfficialInput) (*models.Official, error) {
	if _, err := policy.Authorize(actor, policy.OpOfficialWrite); err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Field("usuario", "el usuario no existe")
		}
		return nil, err
	}
	if !user.Role.IsStaff() {
		return nil, dErrors.Field("usuario", "el usuario debe tener rol FUNCIONARIO o ADMINISTRADOR")
	}
	if _, err := s.GetDepartment(ctx, in.DepartmentID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Field("dependencia", "la dependencia no existe")
		}
		return nil, err
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = user.FullName()
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = user.Email
	}
	o := &models.Official{
		ID:           id.OfficialID(uuid.New()),
		UserID:       in.UserID,
		DepartmentID: in.DepartmentID,
		FullName:     fullName,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Position:     strings.TrimSpace(in.Position),
		Sex:          strings.TrimSpace(in.Sex),
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.CreateOfficial(ctx, o); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Field("usuario", "el usuario ya tiene un perfil de funcionario")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create official")
	}
	s.logger.InfoContext(ctx, "official profile created",
		"request_id", requestcontext.RequestID(ctx),
		"official_id", o.ID,
		"department_id", o.DepartmentID,
	)
	return o, nil
}

// DepartmentStaff lists the Officials linked to a department.
func (s *Service) DepartmentStaff(ctx context.Context, deptID id.DepartmentID) ([]*models.Official, error) {
	officials, err := s.store.ListOfficials(ctx, models.OfficialFilter{DepartmentIDs: []id.DepartmentID{deptID}})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list department staff")
	}
	return officials, nil
}
