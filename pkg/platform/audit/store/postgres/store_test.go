package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "portal/pkg/domain"
	audit "portal/pkg/platform/audit"
)

var rowColumns = []string{"category", "timestamp", "user_id", "subject", "action", "reason", "request_id", "actor_id", "client_ip"}

func TestStore_AppendDerivesCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_events`)).
		WithArgs(sqlmock.AnyArg(), "compliance", now, sqlmock.AnyArg(), "jperez", "user_created", "", "req-1", "admin-id", "192.0.2.4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = New(db).Append(context.Background(), audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: now,
		UserID:    id.UserID(uuid.New()),
		Subject:   "jperez",
		Action:    string(audit.EventUserCreated),
		RequestID: "req-1",
		ActorID:   "admin-id",
		ClientIP:  "192.0.2.4",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendWithoutUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_events`)).
		WithArgs(sqlmock.AnyArg(), "security", sqlmock.AnyArg(), nil, "desconocido", "login_failed", "invalid_credentials", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = New(db).Append(context.Background(), audit.Event{
		Subject: "desconocido",
		Action:  string(audit.EventLoginFailed),
		Reason:  "invalid_credentials",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New()
	now := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM audit_events ORDER BY timestamp DESC LIMIT $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("security", now, userID.String(), "admin", "logout", "", "req-9", "", "").
			AddRow("security", now.Add(-time.Minute), nil, "nadie", "login_failed", "invalid_credentials", "", "", ""))

	events, err := New(db).ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, id.UserID(userID), events[0].UserID)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
	assert.True(t, events[1].UserID.IsNil())
	assert.Equal(t, "invalid_credentials", events[1].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListRecentWithoutLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1`)).
		WithArgs(nil).
		WillReturnRows(sqlmock.NewRows(rowColumns))

	events, err := New(db).ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
