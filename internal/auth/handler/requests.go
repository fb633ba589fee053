package handler

import (
	"strings"

	"portal/internal/auth/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	fields := map[string]string{}
	if r.Username == "" {
		fields["username"] = "este campo es obligatorio"
	}
	if r.Password == "" {
		fields["password"] = "este campo es obligatorio"
	}
	if len(fields) > 0 {
		return dErrors.Validation("datos de acceso incompletos", fields)
	}
	return nil
}

// RefreshRequest is the body of both refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (r *RefreshRequest) Validate() error {
	r.Refresh = strings.TrimSpace(r.Refresh)
	if r.Refresh == "" {
		return dErrors.Field("refresh", "este campo es obligatorio")
	}
	return nil
}

type ChangePasswordRequest struct {
	Current string `json:"actual"`
	New     string `json:"nueva"`
}

func (r *ChangePasswordRequest) Validate() error {
	fields := map[string]string{}
	if r.Current == "" {
		fields["actual"] = "este campo es obligatorio"
	}
	if r.New == "" {
		fields["nueva"] = "este campo es obligatorio"
	}
	if len(fields) > 0 {
		return dErrors.Validation("datos incompletos", fields)
	}
	return nil
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	role id.Role
}

func (r *CreateUserRequest) Validate() error {
	role, err := id.ParseRole(strings.ToUpper(strings.TrimSpace(r.Role)))
	if err != nil {
		return dErrors.Field("role", "rol inválido")
	}
	r.role = role
	return nil
}

func (r *CreateUserRequest) toAccount() models.NewAccount {
	return models.NewAccount{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		Role:      r.role,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	Active    *bool   `json:"is_active"`
	Password  *string `json:"password"`

	role *id.Role
}

func (r *UpdateUserRequest) Validate() error {
	if r.Role != nil {
		role, err := id.ParseRole(strings.ToUpper(strings.TrimSpace(*r.Role)))
		if err != nil {
			return dErrors.Field("role", "rol inválido")
		}
		r.role = &role
	}
	return nil
}

func (r *UpdateUserRequest) toUpdate() models.AccountUpdate {
	return models.AccountUpdate{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.role,
		Active:    r.Active,
		Password:  r.Password,
	}
}
