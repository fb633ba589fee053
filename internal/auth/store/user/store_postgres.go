package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portal/internal/auth/models"
	"portal/internal/platform/database"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
)

const userColumns = `id, username, email, password_hash, role, first_name, last_name, is_active, created_at, last_login_at`

// PostgresStore persists accounts in the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(user.ID), user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.FirstName, user.LastName, user.Active, user.CreatedAt, user.LastLoginAt,
	)
	if _, dup := database.UniqueViolation(err); dup {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, user *models.User) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, role = $5,
		    first_name = $6, last_name = $7, is_active = $8, last_login_at = $9
		WHERE id = $1`,
		uuid.UUID(user.ID), user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.FirstName, user.LastName, user.Active, user.LastLoginAt,
	)
	if _, dup := database.UniqueViolation(err); dup {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", user.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	return scanUser(row)
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	var (
		where []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", n, n, n, n))
	}
	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY username`

	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByRole(ctx context.Context) (map[id.Role]int, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT role, COUNT(*) FROM users WHERE is_active GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.Role]int)
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan user count: %w", err)
		}
		counts[id.Role(role)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u         models.User
		userID    uuid.UUID
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&userID, &u.Username, &u.Email, &u.PasswordHash, &role,
		&u.FirstName, &u.LastName, &u.Active, &u.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(userID)
	u.Role = id.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}
