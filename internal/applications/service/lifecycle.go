package service

import (
	"context"

	"portal/internal/applications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// ChangeStatus applies a staff transition. The prior status is read and
// compared under the store lock; only a real change appends history and
// notifies the citizen. A same-status call still saves a comment when one
// is sent.
func (s *Service) ChangeStatus(ctx context.Context, actor policy.Actor, appID id.ApplicationID, in models.StatusChange) (*models.Application, error) {
	v, err := s.resolve(ctx, actor, policy.OpApplicationTransition)
	if err != nil {
		return nil, err
	}
	if !in.Status.IsValid() {
		return nil, dErrors.Field("estatus", "estatus inválido")
	}
	if _, err := s.visible(ctx, v, appID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var (
		old, current id.ApplicationStatus
		changed      bool
		app          *models.Application
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.store.Execute(ctx, appID, nil, func(a *models.Application) {
			old, current, changed = a.Transition(in.Status, in.Comment, now)
		})
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		by := actor.UserID
		return s.store.AppendHistory(ctx, models.HistoryEntry{
			ApplicationID: appID,
			Status:        current,
			Comments:      in.CommentText(),
			ChangedBy:     &by,
			ChangeType:    models.ChangeStatus,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, notFound(err)
	}
	if !changed {
		return app, nil
	}

	s.metrics.IncrementTransition(string(old), string(current))
	s.logger.InfoContext(ctx, "application status changed",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"from", old,
		"to", current,
	)
	offering, err := s.offering(ctx, app)
	if err != nil {
		s.warn(ctx, "status notification skipped", app, err)
		return app, nil
	}
	ref, err := s.ref(ctx, app, offering)
	if err != nil {
		s.warn(ctx, "status notification skipped", app, err)
		return app, nil
	}
	if _, err := s.notifier.NotifyStatusChange(ctx, ref, old, current, in.CommentText()); err != nil {
		s.warn(ctx, "status notification failed", app, err)
	}
	return app, nil
}

// Detail is one application with everything its detail view shows.
type Detail struct {
	Application    *models.Application
	ServiceName    string
	ServiceKind    string
	DepartmentName string
	CitizenName    string
	Documents      []*models.Document
	Assignments    []*models.Assignment
	Complete       bool
}

func (s *Service) Get(ctx context.Context, actor policy.Actor, appID id.ApplicationID) (*Detail, error) {
	v, err := s.resolve(ctx, actor, policy.OpApplicationRead)
	if err != nil {
		return nil, err
	}
	app, err := s.visible(ctx, v, appID)
	if err != nil {
		return nil, err
	}
	offering, err := s.offering(ctx, app)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocuments(ctx, appID)
	if err != nil {
		return nil, internal(err, "failed to list documents")
	}
	assignments, err := s.store.ListAssignments(ctx, appID)
	if err != nil {
		return nil, internal(err, "failed to list assignments")
	}
	d := &Detail{
		Application: app,
		ServiceName: offering.Name,
		ServiceKind: string(offering.Kind),
		Documents:   docs,
		Assignments: assignments,
		Complete:    models.CheckCompleteness(offering, docs).Complete,
	}
	if dept, err := s.catalog.GetDepartment(ctx, offering.DepartmentID); err == nil {
		d.DepartmentName = dept.Name
	}
	if c, err := s.citizens.ByID(ctx, app.CitizenID); err == nil {
		d.CitizenName = c.FullName()
	}
	return d, nil
}

// Summary is a list row.
type Summary struct {
	Application *models.Application
	ServiceName string
}

// List returns the actor's visible applications, newest first.
func (s *Service) List(ctx context.Context, actor policy.Actor, filter models.Filter) ([]Summary, error) {
	v, err := s.resolve(ctx, actor, policy.OpApplicationRead)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.List(ctx, v.vis, filter)
	if err != nil {
		return nil, internal(err, "failed to list applications")
	}
	return s.summaries(ctx, apps), nil
}

// summaries names the offering of each application, resolving each offering
// once.
func (s *Service) summaries(ctx context.Context, apps []*models.Application) []Summary {
	names := map[string]string{}
	out := make([]Summary, 0, len(apps))
	for _, a := range apps {
		var key string
		if a.ProcedureID != nil {
			key = a.ProcedureID.String()
		} else if a.ProgramID != nil {
			key = a.ProgramID.String()
		}
		name, ok := names[key]
		if !ok {
			if o, err := s.offering(ctx, a); err == nil {
				name = o.Name
			} else {
				s.warn(ctx, "offering lookup failed", a, err)
			}
			names[key] = name
		}
		out = append(out, Summary{Application: a, ServiceName: name})
	}
	return out
}

// HistoryItem is an audit entry with the display name of who made it.
// ActorName is "Sistema" when the change has no user.
type HistoryItem struct {
	models.HistoryEntry
	ActorName string
}

// History returns the current application together with its audit trail,
// newest first.
func (s *Service) History(ctx context.Context, actor policy.Actor, appID id.ApplicationID) (*models.Application, []HistoryItem, error) {
	v, err := s.resolve(ctx, actor, policy.OpApplicationRead)
	if err != nil {
		return nil, nil, err
	}
	app, err := s.visible(ctx, v, appID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.store.ListHistory(ctx, appID)
	if err != nil {
		return nil, nil, internal(err, "failed to list history")
	}
	names := map[id.UserID]string{}
	out := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		item := HistoryItem{HistoryEntry: e, ActorName: systemActor}
		if e.ChangedBy != nil {
			name, ok := names[*e.ChangedBy]
			if !ok {
				name = systemActor
				if u, err := s.users.GetUser(ctx, *e.ChangedBy); err == nil {
					name = u.FullName()
				}
				names[*e.ChangedBy] = name
			}
			item.ActorName = name
		}
		out = append(out, item)
	}
	return app, out, nil
}

const systemActor = "Sistema"
