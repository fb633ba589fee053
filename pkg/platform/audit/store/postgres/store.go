package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "portal/pkg/domain"
	audit "portal/pkg/platform/audit"
	"portal/pkg/platform/tx"
)

// Store appends audit events to the audit_events table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const eventColumns = `category, timestamp, user_id, subject, action, reason, request_id, actor_id, client_ip`

// Append inserts one event. The category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var userID *uuid.UUID
	if !event.UserID.IsNil() {
		uid := uuid.UUID(event.UserID)
		userID = &uid
	}

	query := `
		INSERT INTO audit_events (id, ` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		string(audit.AuditEvent(event.Action).Category()),
		event.Timestamp,
		userID,
		event.Subject,
		event.Action,
		event.Reason,
		event.RequestID,
		event.ActorID,
		event.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns events for one account, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM audit_events WHERE user_id = $1 ORDER BY timestamp`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecent returns the newest events first. A non-positive limit binds
// LIMIT NULL, which Postgres treats as no limit.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	var bound any
	if limit > 0 {
		bound = limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM audit_events ORDER BY timestamp DESC LIMIT $1`,
		bound)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			category string
			event    audit.Event
			userID   uuid.NullUUID
		)
		err := rows.Scan(
			&category,
			&event.Timestamp,
			&userID,
			&event.Subject,
			&event.Action,
			&event.Reason,
			&event.RequestID,
			&event.ActorID,
			&event.ClientIP,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if userID.Valid {
			event.UserID = id.UserID(userID.UUID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
