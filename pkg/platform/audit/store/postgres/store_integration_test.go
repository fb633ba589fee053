//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "portal/pkg/platform/audit"
	"portal/pkg/platform/audit/store/postgres"
	"portal/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestListRecentNewestFirst() {
	ctx := context.Background()
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	for i, action := range []audit.AuditEvent{audit.EventLoginFailed, audit.EventLoginFailed, audit.EventLoginSucceeded} {
		s.Require().NoError(s.store.Append(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Subject:   "jperez",
			Action:    string(action),
			ClientIP:  "198.51.100.3",
		}))
	}

	events, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventLoginSucceeded), events[0].Action)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.Equal("198.51.100.3", events[0].ClientIP)
	s.True(events[0].UserID.IsNil())
	s.True(events[1].Timestamp.Before(events[0].Timestamp))
}
