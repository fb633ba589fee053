package service

import (
	"context"

	"portal/internal/notifications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// Every role reads only its own inbox, administrators included.

func (m *Manager) List(ctx context.Context, actor policy.Actor, filter models.Filter) ([]*models.Notification, error) {
	if _, err := policy.Authorize(actor, policy.OpNotificationRead); err != nil {
		return nil, err
	}
	list, err := m.store.ListByUser(ctx, actor.UserID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return list, nil
}

func (m *Manager) UnreadCount(ctx context.Context, actor policy.Actor) (int, error) {
	if _, err := policy.Authorize(actor, policy.OpNotificationRead); err != nil {
		return 0, err
	}
	n, err := m.store.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count notifications")
	}
	return n, nil
}

// MarkRead is idempotent: a notification already read keeps its first
// read timestamp. Another user's notification is reported as missing.
func (m *Manager) MarkRead(ctx context.Context, actor policy.Actor, notifID id.NotificationID) (*models.Notification, error) {
	if _, err := policy.Authorize(actor, policy.OpNotificationRead); err != nil {
		return nil, err
	}
	n, err := m.store.MarkRead(ctx, actor.UserID, notifID, requestcontext.Now(ctx))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

// MarkAllRead returns how many notifications changed state.
func (m *Manager) MarkAllRead(ctx context.Context, actor policy.Actor) (int, error) {
	if _, err := policy.Authorize(actor, policy.OpNotificationRead); err != nil {
		return 0, err
	}
	n, err := m.store.MarkAllRead(ctx, actor.UserID, requestcontext.Now(ctx))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update notifications")
	}
	return n, nil
}
