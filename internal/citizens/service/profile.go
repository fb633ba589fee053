package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"portal/internal/citizens/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

// visible loads a citizen the actor may see under op. Records outside an
// own scope are reported as missing.
func (s *Service) visible(ctx context.Context, actor policy.Actor, op policy.Operation, citizenID id.CitizenID) (*models.Citizen, error) {
	scope, err := policy.Authorize(actor, op)
	if err != nil {
		return nil, err
	}
	c, err := s.store.FindByID(ctx, citizenID)
	if err != nil {
		return nil, notFound(err)
	}
	if scope == policy.ScopeOwn && c.UserID != actor.UserID {
		return nil, notFound(sentinel.ErrNotFound)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, actor policy.Actor, citizenID id.CitizenID) (*models.Citizen, error) {
	return s.visible(ctx, actor, policy.OpCitizenRead, citizenID)
}

// Profile returns the caller's own citizen record.
func (s *Service) Profile(ctx context.Context, actor policy.Actor) (*models.Citizen, error) {
	if _, err := policy.Authorize(actor, policy.OpCitizenRead); err != nil {
		return nil, err
	}
	c, err := s.store.FindByUserID(ctx, actor.UserID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "el usuario no tiene un perfil de ciudadano")
	}
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, actor policy.Actor, citizenID id.CitizenID, upd models.Update) (*models.Citizen, error) {
	c, err := s.visible(ctx, actor, policy.OpCitizenUpdate, citizenID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	set := func(field string, dst *string, v *string) {
		if v == nil {
			return
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			fields[field] = msgRequired
			return
		}
		*dst = trimmed
	}
	emailChanged := false
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			fields["correo"] = "correo electrónico inválido"
		} else {
			emailChanged = !strings.EqualFold(email, c.Email)
			c.Email = email
		}
	}
	set("telefono", &c.Phone, upd.Phone)
	set("calle", &c.Street, upd.Street)
	set("numero_exterior", &c.ExteriorNumber, upd.ExteriorNumber)
	if upd.InteriorNumber != nil {
		c.InteriorNumber = strings.TrimSpace(*upd.InteriorNumber)
	}
	if upd.LocalityID != nil {
		if _, err := s.localities.ResidentLocality(ctx, *upd.LocalityID); err != nil {
			msg, ok := dErrors.FieldsOf(err)["localidad"]
			if !ok {
				return nil, err
			}
			fields["localidad"] = msg
		} else {
			loc := *upd.LocalityID
			c.LocalityID = &loc
		}
	}
	if len(fields) > 0 {
		return nil, dErrors.Validation("datos de ciudadano inválidos", fields)
	}
	if emailChanged {
		if err := s.checkUnique(ctx, "", c.Email, &c.ID); err != nil {
			return nil, err
		}
	}

	c.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, c); err != nil {
		if dup := duplicateField(err); dup != nil {
			return nil, dup
		}
		return nil, notFound(err)
	}
	s.logger.InfoContext(ctx, "citizen updated",
		"request_id", requestcontext.RequestID(ctx),
		"citizen_id", c.ID,
		"updated_by", actor.UserID,
	)
	return c, nil
}

// List is the administrative directory of citizens.
func (s *Service) List(ctx context.Context, actor policy.Actor, filter models.Filter) ([]*models.Citizen, error) {
	scope, err := policy.Authorize(actor, policy.OpCitizenRead)
	if err != nil {
		return nil, err
	}
	if scope != policy.ScopeAll {
		return nil, dErrors.New(dErrors.CodeForbidden, "no tienes permiso para realizar esta acción")
	}
	out, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list citizens")
	}
	return out, nil
}

// ByUser and ByID serve other contexts; they perform no authorization.
func (s *Service) ByUser(ctx context.Context, userID id.UserID) (*models.Citizen, error) {
	c, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "el usuario no tiene un perfil de ciudadano")
	}
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *Service) ByID(ctx context.Context, citizenID id.CitizenID) (*models.Citizen, error) {
	c, err := s.store.FindByID(ctx, citizenID)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// EmailForUser returns the decrypted address of the citizen owning userID.
func (s *Service) EmailForUser(ctx context.Context, userID id.UserID) (string, error) {
	c, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return c.Email, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count citizens")
	}
	return n, nil
}
