package revocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresBlacklist persists revoked token ids in the revoked_tokens table.
type PostgresBlacklist struct {
	db    *sql.DB
	clock Clock
}

type PostgresOption func(*PostgresBlacklist)

// WithPostgresClock sets the clock used for expiry.
func WithPostgresClock(clock Clock) PostgresOption {
	return func(b *PostgresBlacklist) {
		if clock != nil {
			b.clock = clock
		}
	}
}

func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresBlacklist {
	b := &PostgresBlacklist{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *PostgresBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET
			expires_at = EXCLUDED.expires_at
	`, jti, b.clock().Add(ttl))
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (b *PostgresBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	var expiresAt time.Time
	err := b.db.QueryRowContext(ctx, `SELECT expires_at FROM revoked_tokens WHERE jti = $1`, jti).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return b.clock().Before(expiresAt), nil
}

// PurgeExpired deletes entries whose tokens have expired anyway.
func (b *PostgresBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := b.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, b.clock())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return res.RowsAffected()
}
