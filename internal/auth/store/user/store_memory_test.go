package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"portal/internal/auth/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
	ctx   context.Context
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func newUser(username string, role id.Role) *models.User {
	return &models.User{
		ID:        id.UserID(uuid.New()),
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		FirstName: "Ana",
		LastName:  "López",
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	u := newUser("funcionario1", id.RoleOfficial)
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Run("by id", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u, found)
	})

	s.Run("by username", func() {
		found, err := s.store.FindByUsername(s.ctx, "funcionario1")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("missing user is ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, id.UserID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByUsername(s.ctx, "nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned copies do not alias store state", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		found.Active = false
		again, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.True(again.Active)
	})
}

func (s *InMemoryUserStoreSuite) TestUsernameUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, newUser("dup", id.RoleCitizen)))
	err := s.store.Create(s.ctx, newUser("dup", id.RoleCitizen))
	s.ErrorIs(err, sentinel.ErrConflict)

	other := newUser("other", id.RoleCitizen)
	s.Require().NoError(s.store.Create(s.ctx, other))
	other.Username = "dup"
	s.ErrorIs(s.store.Update(s.ctx, other), sentinel.ErrConflict)
}

func (s *InMemoryUserStoreSuite) TestUpdateRenames() {
	u := newUser("before", id.RoleCitizen)
	s.Require().NoError(s.store.Create(s.ctx, u))
	u.Username = "after"
	s.Require().NoError(s.store.Update(s.ctx, u))

	_, err := s.store.FindByUsername(s.ctx, "before")
	s.ErrorIs(err, sentinel.ErrNotFound)
	found, err := s.store.FindByUsername(s.ctx, "after")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)

	s.ErrorIs(s.store.Update(s.ctx, newUser("ghost", id.RoleCitizen)), sentinel.ErrNotFound)
}

func (s *InMemoryUserStoreSuite) TestListAndCount() {
	admin := newUser("admin", id.RoleAdministrator)
	official := newUser("maria", id.RoleOfficial)
	inactive := newUser("zeta", id.RoleOfficial)
	inactive.Active = false
	for _, u := range []*models.User{admin, official, inactive} {
		s.Require().NoError(s.store.Create(s.ctx, u))
	}

	all, err := s.store.List(s.ctx, models.UserFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal("admin", all[0].Username)

	active := true
	officials, err := s.store.List(s.ctx, models.UserFilter{Role: id.RoleOfficial, Active: &active})
	s.Require().NoError(err)
	s.Require().Len(officials, 1)
	s.Equal(official.ID, officials[0].ID)

	searched, err := s.store.List(s.ctx, models.UserFilter{Search: "MAR"})
	s.Require().NoError(err)
	s.Len(searched, 1)

	counts, err := s.store.CountByRole(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[id.RoleAdministrator])
	s.Equal(1, counts[id.RoleOfficial])
}

func (s *InMemoryUserStoreSuite) TestDeleteFreesUsername() {
	u := newUser("GORA900517MTCMZN01", id.RoleCitizen)
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Require().NoError(s.store.Delete(s.ctx, u.ID))
	_, err := s.store.FindByID(s.ctx, u.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.NoError(s.store.Create(s.ctx, newUser("GORA900517MTCMZN01", id.RoleCitizen)), "the username can be registered again")

	s.ErrorIs(s.store.Delete(s.ctx, u.ID), sentinel.ErrNotFound)
}
