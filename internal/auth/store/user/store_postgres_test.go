package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/auth/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "role", "first_name", "last_name", "is_active", "created_at", "last_login_at"}

func TestPostgresStore_FindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("GOMA800101HTCRRN09").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(userID.String(), "GOMA800101HTCRRN09", "ana@example.com", "hash", "CIUDADANO", "Ana", "Gómez", true, created, nil))

	store := NewPostgres(db)
	u, err := store.FindByUsername(context.Background(), "GOMA800101HTCRRN09")
	require.NoError(t, err)
	assert.Equal(t, id.UserID(userID), u.ID)
	assert.Equal(t, id.RoleCitizen, u.Role)
	assert.Nil(t, u.LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err = NewPostgres(db).FindByID(context.Background(), id.UserID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err = NewPostgres(db).Create(context.Background(), &models.User{
		ID:        id.UserID(uuid.New()),
		Username:  "admin",
		Role:      id.RoleAdministrator,
		Active:    true,
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPostgres(db).Update(context.Background(), &models.User{ID: id.UserID(uuid.New()), Username: "x", Role: id.RoleCitizen})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_ListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	active := true
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE role = $1 AND is_active = $2 ORDER BY username`)).
		WithArgs("FUNCIONARIO", true).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(uuid.NewString(), "maria", "", "h", "FUNCIONARIO", "María", "Pérez", true, time.Now(), time.Now()))

	users, err := NewPostgres(db).List(context.Background(), models.UserFilter{Role: id.RoleOfficial, Active: &active})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotNil(t, users[0].LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT role, COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"role", "count"}).
			AddRow("CIUDADANO", 12).
			AddRow("FUNCIONARIO", 3))

	counts, err := NewPostgres(db).CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts[id.RoleCitizen])
	assert.Equal(t, 3, counts[id.RoleOfficial])
}

func TestPostgresStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPostgres(db)
	require.NoError(t, store.Delete(context.Background(), id.UserID(userID)))
	assert.ErrorIs(t, store.Delete(context.Background(), id.UserID(userID)), sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
