package testutil

import (
	"context"
	"net/http"

	id "portal/pkg/domain"
	"portal/pkg/requestcontext"
)

// WithActor adds the identity the auth middleware would have placed on an
// authenticated request.
func WithActor(req *http.Request, userID id.UserID, role id.Role) *http.Request {
	return req.WithContext(ActorContext(req.Context(), userID, role))
}

// ActorContext is WithActor for service tests that have no request.
func ActorContext(ctx context.Context, userID id.UserID, role id.Role) context.Context {
	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithRole(ctx, role)
	return ctx
}
