package service

import (
	"context"

	"github.com/google/uuid"

	"portal/internal/applications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// Assign gives a visible application to an official. Active assignments of
// the application within the official's department are switched off first.
func (s *Service) Assign(ctx context.Context, actor policy.Actor, in models.AssignmentInput) (*models.Assignment, error) {
	v, err := s.resolve(ctx, actor, policy.OpApplicationAssign)
	if err != nil {
		return nil, err
	}
	app, err := s.visible(ctx, v, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	official, err := s.catalog.GetOfficial(ctx, in.OfficialID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, dErrors.Field("funcionario", "el funcionario no existe")
	}
	if err != nil {
		return nil, err
	}

	by := actor.UserID
	as := &models.Assignment{
		ID:            id.AssignmentID(uuid.New()),
		ApplicationID: app.ID,
		OfficialID:    official.ID,
		DepartmentID:  official.DepartmentID,
		Active:        true,
		AssignedBy:    &by,
		Notes:         in.Notes,
		CreatedAt:     requestcontext.Now(ctx),
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.DeactivateAssignments(ctx, app.ID, official.DepartmentID); err != nil {
			return err
		}
		return s.store.CreateAssignment(ctx, as)
	})
	if err != nil {
		return nil, internal(err, "failed to assign application")
	}
	s.metrics.IncrementAssignments()

	offering, err := s.offering(ctx, app)
	if err != nil {
		s.warn(ctx, "assignment notification skipped", app, err)
		return as, nil
	}
	ref, err := s.ref(ctx, app, offering)
	if err != nil {
		s.warn(ctx, "assignment notification skipped", app, err)
		return as, nil
	}
	if _, err := s.notifier.NotifyOfficialAssignment(ctx, official.UserID, ref); err != nil {
		s.warn(ctx, "assignment notification failed", app, err)
	}
	return as, nil
}

// MyAssignments lists the caller's active assignments. Staff without an
// Official profile have none.
func (s *Service) MyAssignments(ctx context.Context, actor policy.Actor) ([]*models.Assignment, error) {
	if _, err := policy.Authorize(actor, policy.OpApplicationAssign); err != nil {
		return nil, err
	}
	official, err := s.catalog.OfficialForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if official == nil {
		return []*models.Assignment{}, nil
	}
	list, err := s.store.ActiveAssignmentsFor(ctx, official.ID)
	if err != nil {
		return nil, internal(err, "failed to list assignments")
	}
	return list, nil
}
