package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"portal/internal/auth/models"
	"portal/internal/auth/password"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/audit"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

// CreateUser creates a staff or citizen account on behalf of an
// administrator. The generated temporary password is returned once when the
// request carried none.
func (s *Service) CreateUser(ctx context.Context, actor policy.Actor, acct models.NewAccount) (*models.User, string, error) {
	if _, err := policy.Authorize(actor, policy.OpUserManage); err != nil {
		return nil, "", err
	}
	var temporary string
	if acct.Password == "" {
		generated, err := password.Generate()
		if err != nil {
			return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate password")
		}
		acct.Password = generated
		temporary = generated
	}
	user, err := s.RegisterAccount(ctx, acct)
	if err != nil {
		return nil, "", err
	}
	s.audit(ctx, audit.EventUserCreated, audit.Event{UserID: user.ID, Subject: user.Username, ActorID: actor.UserID.String()})
	s.logger.InfoContext(ctx, "user created",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", user.Role,
		"created_by", actor.UserID,
	)
	return user, temporary, nil
}

// RegisterAccount validates and stores a new active account. Callers
// authorize the operation themselves.
func (s *Service) RegisterAccount(ctx context.Context, acct models.NewAccount) (*models.User, error) {
	acct.Username = strings.TrimSpace(acct.Username)
	acct.Email = strings.TrimSpace(acct.Email)

	fields := map[string]string{}
	if acct.Username == "" {
		fields["username"] = "este campo es obligatorio"
	}
	if !acct.Role.IsValid() {
		fields["role"] = "rol inválido"
	}
	if acct.Email != "" {
		if _, err := mail.ParseAddress(acct.Email); err != nil {
			fields["email"] = "correo electrónico inválido"
		}
	}
	if err := password.CheckStrength(acct.Password); err != nil {
		fields["password"] = dErrors.MessageOf(err)
	}
	if len(fields) > 0 {
		return nil, dErrors.Validation("datos de usuario inválidos", fields)
	}

	hash, err := password.Hash(acct.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, dErrors.Field("password", dErrors.MessageOf(err))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		ID:           id.UserID(uuid.New()),
		Username:     acct.Username,
		Email:        acct.Email,
		PasswordHash: hash,
		Role:         acct.Role,
		FirstName:    strings.TrimSpace(acct.FirstName),
		LastName:     strings.TrimSpace(acct.LastName),
		Active:       true,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Field("username", "ya existe un usuario con este nombre de usuario")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	return user, nil
}

// RemoveAccount deletes an account created by RegisterAccount. An account
// that no longer exists is not an error.
func (s *Service) RemoveAccount(ctx context.Context, userID id.UserID) error {
	err := s.users.Delete(ctx, userID)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove account")
}

// UpdateUser applies an administrator's changes to an account.
func (s *Service) UpdateUser(ctx context.Context, actor policy.Actor, userID id.UserID, upd models.AccountUpdate) (*models.User, error) {
	if _, err := policy.Authorize(actor, policy.OpUserManage); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, dErrors.Field("email", "correo electrónico inválido")
			}
		}
		user.Email = email
	}
	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Role != nil {
		if !upd.Role.IsValid() {
			return nil, dErrors.Field("role", "rol inválido")
		}
		user.Role = *upd.Role
	}
	if upd.Active != nil {
		if !*upd.Active && userID == actor.UserID {
			return nil, dErrors.Field("is_active", "no puedes desactivar tu propia cuenta")
		}
		user.Active = *upd.Active
	}
	if upd.Password != nil {
		if err := password.CheckStrength(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := password.Hash(*upd.Password)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	s.audit(ctx, audit.EventUserUpdated, audit.Event{UserID: user.ID, Subject: user.Username, ActorID: actor.UserID.String()})
	return user, nil
}

// ChangePassword replaces the caller's own password after checking the
// current one. Field errors use the request keys actual and nueva.
func (s *Service) ChangePassword(ctx context.Context, userID id.UserID, current, next string) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.Verify(current, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			s.audit(ctx, audit.EventPasswordChangeFailed, audit.Event{UserID: user.ID, Subject: user.Username, Reason: "invalid_current_password"})
			return dErrors.Field("actual", "la contraseña actual es incorrecta")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	if err := password.CheckStrength(next); err != nil {
		return dErrors.Field("nueva", dErrors.FieldsOf(err)["password"])
	}
	if next == current {
		return dErrors.Field("nueva", "la nueva contraseña debe ser distinta de la actual")
	}
	hash, err := password.Hash(next)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "usuario no encontrado")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	s.audit(ctx, audit.EventPasswordChanged, audit.Event{UserID: user.ID, Subject: user.Username})
	s.logger.InfoContext(ctx, "password changed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
	)
	return nil
}

func (s *Service) ListUsers(ctx context.Context, actor policy.Actor, filter models.UserFilter) ([]*models.User, error) {
	if _, err := policy.Authorize(actor, policy.OpUserManage); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// CountActiveByRole backs the statistics endpoint.
func (s *Service) CountActiveByRole(ctx context.Context) (map[id.Role]int, error) {
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	return counts, nil
}

// EnsureAdmin creates the first administrator when the username is free.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, plain, email string) (bool, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	_, err := s.RegisterAccount(ctx, models.NewAccount{
		Username:  username,
		Email:     email,
		Password:  plain,
		Role:      id.RoleAdministrator,
		FirstName: "Administrador",
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
