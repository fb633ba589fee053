package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	authmodels "portal/internal/auth/models"
	"portal/internal/auth/password"
	"portal/internal/citizens/curp"
	"portal/internal/citizens/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

type registration struct {
	curp      string
	birthDate time.Time
	sex       models.Sex
}

func trim(ptrs ...*string) {
	for _, p := range ptrs {
		*p = strings.TrimSpace(*p)
	}
}

func (s *Service) validateRegistration(ctx context.Context, in *models.Registration) (*registration, error) {
	trim(&in.FirstName, &in.PaternalSurname, &in.MaternalSurname, &in.Email,
		&in.Phone, &in.Street, &in.ExteriorNumber, &in.InteriorNumber)
	out := &registration{curp: curp.Normalize(in.CURP)}

	fields := map[string]string{}
	if !curp.Valid(out.curp) {
		fields["curp"] = msgInvalidCURP
	}
	for field, v := range map[string]string{
		"nombre":           in.FirstName,
		"apellido_paterno": in.PaternalSurname,
		"telefono":         in.Phone,
		"calle":            in.Street,
		"numero_exterior":  in.ExteriorNumber,
	} {
		if v == "" {
			fields[field] = msgRequired
		}
	}
	if in.Email == "" {
		fields["correo"] = msgRequired
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["correo"] = "correo electrónico inválido"
	}
	if bd, err := time.Parse(models.BirthDateLayout, strings.TrimSpace(in.BirthDate)); err != nil {
		fields["fecha_nacimiento"] = "fecha inválida, use el formato AAAA-MM-DD"
	} else {
		out.birthDate = bd
	}
	if sex, err := models.ParseSex(in.Sex); err != nil {
		fields["sexo"] = dErrors.MessageOf(err)
	} else {
		out.sex = sex
	}
	if err := password.CheckStrength(in.Password); err != nil {
		fields["password"] = dErrors.MessageOf(err)
	}
	if in.LocalityID != nil {
		if _, err := s.localities.ResidentLocality(ctx, *in.LocalityID); err != nil {
			if msg, ok := dErrors.FieldsOf(err)["localidad"]; ok {
				fields["localidad"] = msg
			} else {
				return nil, err
			}
		}
	}
	if len(fields) > 0 {
		return nil, dErrors.Validation("datos de registro inválidos", fields)
	}

	if err := s.checkUnique(ctx, out.curp, in.Email, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// checkUnique reports duplicate CURP or email as field errors. self is the
// citizen being updated, whose own email does not count.
func (s *Service) checkUnique(ctx context.Context, curpValue, email string, self *id.CitizenID) error {
	fields := map[string]string{}
	if curpValue != "" {
		_, err := s.store.FindByCURP(ctx, curpValue)
		switch {
		case err == nil:
			fields["curp"] = msgDuplicateCURP
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check curp")
		}
	}
	if email != "" {
		existing, err := s.store.FindByEmail(ctx, email)
		switch {
		case err == nil && (self == nil || existing.ID != *self):
			fields["correo"] = msgDuplicateEmail
		case err != nil && !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
		}
	}
	if len(fields) > 0 {
		return dErrors.Validation("datos de registro inválidos", fields)
	}
	return nil
}

// Register creates the CIUDADANO account (username = CURP) and the citizen
// profile in one transaction, then sends the welcome email best-effort.
func (s *Service) Register(ctx context.Context, actor policy.Actor, in models.Registration) (*models.Citizen, error) {
	if _, err := policy.Authorize(actor, policy.OpCitizenRegister); err != nil {
		return nil, err
	}
	v, err := s.validateRegistration(ctx, &in)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	citizen := &models.Citizen{
		ID:              id.CitizenID(uuid.New()),
		FirstName:       in.FirstName,
		PaternalSurname: in.PaternalSurname,
		MaternalSurname: in.MaternalSurname,
		BirthDate:       v.birthDate,
		Sex:             v.sex,
		CURP:            v.curp,
		Email:           in.Email,
		Phone:           in.Phone,
		Street:          in.Street,
		ExteriorNumber:  in.ExteriorNumber,
		InteriorNumber:  in.InteriorNumber,
		LocalityID:      in.LocalityID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.accounts.RegisterAccount(ctx, authmodels.NewAccount{
			Username:  v.curp,
			Email:     in.Email,
			Password:  in.Password,
			Role:      id.RoleCitizen,
			FirstName: in.FirstName,
			LastName:  strings.TrimSpace(in.PaternalSurname + " " + in.MaternalSurname),
		})
		if err != nil {
			if _, taken := dErrors.FieldsOf(err)["username"]; taken {
				return dErrors.Field("curp", msgDuplicateCURP)
			}
			return err
		}
		citizen.UserID = user.ID
		if err := s.store.Create(ctx, citizen); err != nil {
			if dup := duplicateField(err); dup != nil {
				return dup
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create citizen")
		}
		return nil
	})
	if err != nil {
		s.discardAccount(ctx, citizen.UserID)
		return nil, err
	}

	s.logger.InfoContext(ctx, "citizen registered",
		"request_id", requestcontext.RequestID(ctx),
		"citizen_id", citizen.ID,
		"user_id", citizen.UserID,
	)
	s.sendWelcome(ctx, citizen)
	return citizen, nil
}

// discardAccount removes the login created for a registration that failed
// afterwards. A rolled back transaction has already removed it, so only the
// in-memory stores leave something to delete.
func (s *Service) discardAccount(ctx context.Context, userID id.UserID) {
	if userID.IsNil() {
		return
	}
	if err := s.accounts.RemoveAccount(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove account of failed registration",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
	}
}

func (s *Service) sendWelcome(ctx context.Context, c *models.Citizen) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendWelcome(ctx, c.Email, c.FullName()); err != nil {
		s.logger.WarnContext(ctx, "welcome email failed",
			"request_id", requestcontext.RequestID(ctx),
			"citizen_id", c.ID,
			"error", err,
		)
	}
}

// VerifyCURP answers whether a CURP is well formed and still free to register.
func (s *Service) VerifyCURP(ctx context.Context, raw string) error {
	value := curp.Normalize(raw)
	if !curp.Valid(value) {
		return dErrors.Field("curp", msgInvalidCURP)
	}
	return s.checkUnique(ctx, value, "", nil)
}

// LookupCURP queries the external registry. Every failure surfaces as the
// same bad request; the category is only logged.
func (s *Service) LookupCURP(ctx context.Context, raw string) (*curp.Record, error) {
	value := curp.Normalize(raw)
	failed := dErrors.New(dErrors.CodeBadRequest, "No fue posible validar la CURP")
	if !curp.Valid(value) {
		return nil, failed
	}
	rec, err := s.lookup.Lookup(ctx, value)
	if err != nil {
		category, _ := curp.CategoryOf(err)
		s.logger.WarnContext(ctx, "curp lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"category", category,
			"error", err,
		)
		return nil, failed
	}
	return rec, nil
}
