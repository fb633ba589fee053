package audit

import (
	"context"

	id "portal/pkg/domain"
)

// Store persists audit events. Implementations live under store/.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
