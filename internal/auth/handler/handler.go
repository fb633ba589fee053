package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"portal/internal/auth/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	"portal/pkg/requestcontext"
)

// Service defines the auth operations used by the HTTP layer.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID id.UserID) (*models.User, error)
	ChangePassword(ctx context.Context, userID id.UserID, current, next string) error
	CreateUser(ctx context.Context, actor policy.Actor, acct models.NewAccount) (*models.User, string, error)
	UpdateUser(ctx context.Context, actor policy.Actor, userID id.UserID, upd models.AccountUpdate) (*models.User, error)
	ListUsers(ctx context.Context, actor policy.Actor, filter models.UserFilter) ([]*models.User, error)
}

type Handler struct {
	service  Service
	logger   *slog.Logger
	throttle func(http.Handler) http.Handler
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, throttle: passThrough}
}

func passThrough(next http.Handler) http.Handler {
	return next
}

// WithThrottle wraps the token endpoints, typically with a per-IP rate limit.
func (h *Handler) WithThrottle(mw func(http.Handler) http.Handler) *Handler {
	if mw != nil {
		h.throttle = mw
	}
	return h
}

// RegisterPublic mounts the endpoints reachable without a bearer token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.With(h.throttle).Post("/auth/token", h.HandleLogin)
	r.With(h.throttle).Post("/auth/token/refresh", h.HandleRefresh)
}

// Register mounts the endpoints that require authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/auth/me", h.HandleMe)
	r.Post("/auth/password", h.HandleChangePassword)
	r.Get("/usuarios/", h.HandleListUsers)
	r.Post("/usuarios/", h.HandleCreateUser)
	r.Patch("/usuarios/{id}/", h.HandleUpdateUser)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	pair, user, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(pair, user))
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RefreshRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	pair, err := h.service.Refresh(ctx, req.Refresh)
	if err != nil {
		h.logger.WarnContext(ctx, "token refresh failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(pair, nil))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RefreshRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.Logout(ctx, req.Refresh); err != nil {
		h.logger.WarnContext(ctx, "logout failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.service.Me(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ChangePasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.ChangePassword(ctx, requestcontext.UserID(ctx), req.Current, req.New); err != nil {
		h.logger.WarnContext(ctx, "password change failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := models.UserFilter{Search: strings.TrimSpace(q.Get("q"))}
	if raw := q.Get("rol"); raw != "" {
		role, err := id.ParseRole(strings.ToUpper(raw))
		if err != nil {
			httputil.WriteError(w, dErrors.Field("rol", "rol inválido"))
			return
		}
		filter.Role = role
	}
	if raw := q.Get("activo"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Field("activo", "valor booleano inválido"))
			return
		}
		filter.Active = &active
	}

	users, err := h.service.ListUsers(ctx, policy.ActorFromContext(ctx), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	user, temporary, err := h.service.CreateUser(ctx, policy.ActorFromContext(ctx), req.toAccount())
	if err != nil {
		h.logger.WarnContext(ctx, "create user failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, CreatedUserResponse{
		UserResponse:      *toUserResponse(user),
		TemporaryPassword: temporary,
	})
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	user, err := h.service.UpdateUser(ctx, policy.ActorFromContext(ctx), userID, req.toUpdate())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
