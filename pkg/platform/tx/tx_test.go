package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "portal/pkg/domain-errors"
)

func TestSQLRunner(t *testing.T) {
	t.Run("commits when callback succeeds", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		var sawTx bool
		err = NewSQLRunner(db).RunInTx(context.Background(), func(ctx context.Context) error {
			_, sawTx = From(ctx)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, sawTx)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when callback fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = NewSQLRunner(db).RunInTx(context.Background(), func(ctx context.Context) error {
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled context never opens a transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = NewSQLRunner(db).RunInTx(ctx, func(ctx context.Context) error { return nil })
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call reuses outer transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		runner := NewSQLRunner(db)
		err = runner.RunInTx(context.Background(), func(ctx context.Context) error {
			outer, _ := From(ctx)
			return runner.RunInTx(ctx, func(inner context.Context) error {
				got, _ := From(inner)
				assert.Same(t, outer, got)
				return nil
			})
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
