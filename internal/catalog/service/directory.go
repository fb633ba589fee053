package service

//go:generate mockgen -source=directory.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	authmodels "portal/internal/auth/models"
	id "portal/pkg/domain"
)

// UserDirectory resolves the account an Official profile links to.
type UserDirectory interface {
	GetUser(ctx context.Context, userID id.UserID) (*authmodels.User, error)
}
