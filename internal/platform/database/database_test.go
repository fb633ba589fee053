package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE users")
}

func TestMigrateSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations, err := Migrations()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"version"})
	for _, m := range migrations[:len(migrations)-1] {
		rows.AddRow(m.Version)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).WillReturnRows(rows)

	last := migrations[len(migrations)-1]
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(last.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES ($1)")).
		WithArgs(last.Version).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueViolation(t *testing.T) {
	constraint, ok := UniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "users_username_key"}))
	assert.True(t, ok)
	assert.Equal(t, "users_username_key", constraint)

	constraint, ok = UniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "citizens_curp_hash_key"})
	assert.True(t, ok)
	assert.Equal(t, "citizens_curp_hash_key", constraint)

	_, ok = UniqueViolation(&pq.Error{Code: "23503"})
	assert.False(t, ok)
	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)

	assert.True(t, ForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.False(t, ForeignKeyViolation(&pq.Error{Code: "23505"}))
}
