package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portal/internal/notifications/models"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
)

const notificationColumns = `id, user_id, type, title, message, read, read_at, application_id,
	metadata, email_required, email_sent, created_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) Create(ctx context.Context, n *models.Notification) error {
	metadata, err := json.Marshal(nonNil(n.Metadata))
	if err != nil {
		return fmt.Errorf("encode notification metadata: %w", err)
	}
	_, err = tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(n.ID), uuid.UUID(n.UserID), string(n.Type), n.Title, n.Message, n.Read, n.ReadAt,
		nullApplication(n.ApplicationID), metadata, n.EmailRequired, n.EmailSent, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkEmailSent(ctx context.Context, notifID id.NotificationID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`UPDATE notifications SET email_sent = TRUE WHERE id = $1`, uuid.UUID(notifID))
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, notifID id.NotificationID) (*models.Notification, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, uuid.UUID(notifID))
	return scanNotification(row)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, filter models.Filter) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{uuid.UUID(userID)}
	if filter.Read != nil {
		query += ` AND read = $2`
		args = append(args, *filter.Read)
	}
	query += ` ORDER BY created_at DESC, id`
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountUnread(ctx context.Context, userID id.UserID) (int, error) {
	var n int
	err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, uuid.UUID(userID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead only stamps read_at on the first call; COALESCE keeps the original.
func (s *PostgresStore) MarkRead(ctx context.Context, userID id.UserID, notifID id.NotificationID, at time.Time) (*models.Notification, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`UPDATE notifications SET read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND user_id = $2
		RETURNING `+notificationColumns,
		uuid.UUID(notifID), uuid.UUID(userID), at)
	return scanNotification(row)
}

func (s *PostgresStore) MarkAllRead(ctx context.Context, userID id.UserID, at time.Time) (int, error) {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`UPDATE notifications SET read = TRUE, read_at = $2 WHERE user_id = $1 AND NOT read`,
		uuid.UUID(userID), at)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(n), nil
}

func scanNotification(row scanner) (*models.Notification, error) {
	var (
		n             models.Notification
		notifID, user uuid.UUID
		kind          string
		readAt        sql.NullTime
		appID         uuid.NullUUID
		metadata      []byte
	)
	err := row.Scan(&notifID, &user, &kind, &n.Title, &n.Message, &n.Read, &readAt, &appID,
		&metadata, &n.EmailRequired, &n.EmailSent, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.ID = id.NotificationID(notifID)
	n.UserID = id.UserID(user)
	n.Type = models.Type(kind)
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	if appID.Valid {
		a := id.ApplicationID(appID.UUID)
		n.ApplicationID = &a
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("decode notification metadata: %w", err)
		}
	}
	return &n, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nullApplication(a *id.ApplicationID) uuid.NullUUID {
	if a == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*a), Valid: true}
}
