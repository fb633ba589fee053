package models

import (
	"strings"
	"time"

	id "portal/pkg/domain"
)

// User is a portal account. Citizens log in with their CURP as username;
// staff accounts are created by an administrator.
type User struct {
	ID           id.UserID
	Username     string
	Email        string
	PasswordHash string
	Role         id.Role
	FirstName    string
	LastName     string
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// UserFilter narrows user listings. Zero values do not filter.
type UserFilter struct {
	Role   id.Role
	Active *bool
	Search string
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}
