package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"portal/internal/notifications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	"portal/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, actor policy.Actor, filter models.Filter) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, actor policy.Actor) (int, error)
	MarkRead(ctx context.Context, actor policy.Actor, notifID id.NotificationID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, actor policy.Actor) (int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/notificaciones/", h.HandleList)
	r.Get("/notificaciones/no_leidas_count/", h.HandleUnreadCount)
	r.Post("/notificaciones/marcar_todas_como_leidas/", h.HandleMarkAllRead)
	r.Post("/notificaciones/{id}/marcar_como_leida/", h.HandleMarkRead)
}

type NotificationResponse struct {
	ID            string            `json:"id"`
	Type          string            `json:"tipo"`
	Title         string            `json:"titulo"`
	Message       string            `json:"mensaje"`
	Read          bool              `json:"leida"`
	ReadAt        *time.Time        `json:"fecha_lectura"`
	Application   *string           `json:"solicitud"`
	Metadata      map[string]string `json:"metadata"`
	EmailRequired bool              `json:"requiere_email"`
	EmailSent     bool              `json:"email_enviado"`
	CreatedAt     time.Time         `json:"fecha_creacion"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type UpdatedResponse struct {
	Updated int `json:"updated"`
}

func toNotification(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:            n.ID.String(),
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		Metadata:      n.Metadata,
		EmailRequired: n.EmailRequired,
		EmailSent:     n.EmailSent,
		CreatedAt:     n.CreatedAt,
	}
	if resp.Metadata == nil {
		resp.Metadata = map[string]string{}
	}
	if n.ApplicationID != nil {
		s := n.ApplicationID.String()
		resp.Application = &s
	}
	return resp
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var filter models.Filter
	if raw := r.URL.Query().Get("leida"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Field("leida", "debe ser true o false"))
			return
		}
		filter.Read = &read
	}
	list, err := h.service.List(ctx, policy.ActorFromContext(ctx), filter)
	if err != nil {
		h.writeFailure(ctx, w, "list notifications failed", err)
		return
	}
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotification(n))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.service.UnreadCount(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "unread count failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notifID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.MarkRead(ctx, policy.ActorFromContext(ctx), notifID)
	if err != nil {
		h.writeFailure(ctx, w, "mark notification read failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNotification(n))
}

func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	updated, err := h.service.MarkAllRead(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "mark all notifications read failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UpdatedResponse{Updated: updated})
}
