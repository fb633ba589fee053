package handler

import (
	"time"

	"portal/internal/auth/models"
)

type TokenResponse struct {
	Access    string        `json:"access"`
	Refresh   string        `json:"refresh"`
	ExpiresIn int           `json:"expires_in"`
	User      *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"nombre_completo"`
	Active     bool       `json:"is_active"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// CreatedUserResponse includes the temporary password exactly once.
type CreatedUserResponse struct {
	UserResponse
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

func toUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Active:     u.Active,
		DateJoined: u.CreatedAt,
		LastLogin:  u.LastLoginAt,
	}
}

func toTokenResponse(pair *models.TokenPair, u *models.User) *TokenResponse {
	resp := &TokenResponse{
		Access:    pair.AccessToken,
		Refresh:   pair.RefreshToken,
		ExpiresIn: int(pair.ExpiresIn.Seconds()),
	}
	if u != nil {
		resp.User = toUserResponse(u)
	}
	return resp
}
