package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"portal/internal/citizens/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestUniqueness() {
	c := sampleCitizen()
	s.Require().NoError(s.store.Create(s.ctx, c))

	s.Run("same CURP in another case", func() {
		dup := sampleCitizen()
		dup.CURP = "gora900517mtcmzn01"
		dup.Email = "otra@example.com"
		s.ErrorIs(s.store.Create(s.ctx, dup), models.ErrDuplicateCURP)
	})

	s.Run("same email in another case", func() {
		dup := sampleCitizen()
		dup.CURP = "PELJ850101HTCRPN02"
		dup.Email = "ANA@example.com"
		s.ErrorIs(s.store.Create(s.ctx, dup), models.ErrDuplicateEmail)
	})

	s.Run("email change to a taken address", func() {
		other := sampleCitizen()
		other.CURP = "PELJ850101HTCRPN02"
		other.Email = "juan@example.com"
		s.Require().NoError(s.store.Create(s.ctx, other))

		other.Email = "ana@example.com"
		s.ErrorIs(s.store.Update(s.ctx, other), models.ErrDuplicateEmail)
	})
}

func (s *InMemoryStoreSuite) TestLookupsAndUpdate() {
	c := sampleCitizen()
	s.Require().NoError(s.store.Create(s.ctx, c))

	byUser, err := s.store.FindByUserID(s.ctx, c.UserID)
	s.Require().NoError(err)
	s.Equal(c.ID, byUser.ID)

	c.Email = "nuevo@example.com"
	s.Require().NoError(s.store.Update(s.ctx, c))

	_, err = s.store.FindByEmail(s.ctx, "ana@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
	found, err := s.store.FindByEmail(s.ctx, "Nuevo@Example.com")
	s.Require().NoError(err)
	s.Equal(c.ID, found.ID)

	_, err = s.store.FindByID(s.ctx, id.CitizenID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Update(s.ctx, &models.Citizen{ID: id.CitizenID(uuid.New())}), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListNewestFirstWithSearch() {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Ana", "Beatriz", "Carlos"} {
		c := sampleCitizen()
		c.ID = id.CitizenID(uuid.New())
		c.UserID = id.UserID(uuid.New())
		c.FirstName = name
		c.CURP = []string{"GORA900517MTCMZN01", "GORB900517MTCMZN02", "GORC900517HTCMZN03"}[i]
		c.Email = name + "@example.com"
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		s.Require().NoError(s.store.Create(s.ctx, c))
	}

	all, err := s.store.List(s.ctx, models.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Carlos", all[0].FirstName)

	byCURP, err := s.store.List(s.ctx, models.Filter{Search: "gorb900517mtcmzn02"})
	s.Require().NoError(err)
	s.Require().Len(byCURP, 1)
	s.Equal("Beatriz", byCURP[0].FirstName)

	byName, err := s.store.List(s.ctx, models.Filter{Search: "carl"})
	s.Require().NoError(err)
	s.Len(byName, 1)

	paged, err := s.store.List(s.ctx, models.Filter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Equal("Beatriz", paged[0].FirstName)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, n)
}
