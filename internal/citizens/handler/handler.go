package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portal/internal/citizens/curp"
	"portal/internal/citizens/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	"portal/pkg/requestcontext"
)

type Service interface {
	Register(ctx context.Context, actor policy.Actor, in models.Registration) (*models.Citizen, error)
	VerifyCURP(ctx context.Context, raw string) error
	LookupCURP(ctx context.Context, raw string) (*curp.Record, error)
	Get(ctx context.Context, actor policy.Actor, citizenID id.CitizenID) (*models.Citizen, error)
	Profile(ctx context.Context, actor policy.Actor) (*models.Citizen, error)
	Update(ctx context.Context, actor policy.Actor, citizenID id.CitizenID, upd models.Update) (*models.Citizen, error)
	List(ctx context.Context, actor policy.Actor, filter models.Filter) ([]*models.Citizen, error)
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

// WithThrottle wraps the CURP endpoints, typically with a per-IP rate limit.
func (h *Handler) WithThrottle(mw func(http.Handler) http.Handler) *Handler {
	if mw != nil {
		h.throttle = mw
	}
	return h
}

// RegisterPublic mounts the endpoints used by the anonymous sign-up form.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/ciudadanos/registrar/", h.HandleRegister)
	r.With(h.throttle).Get("/ciudadanos/consultar-curp/", h.HandleLookupCURP)
	r.With(h.throttle).Get("/ciudadanos/verificar-curp/", h.HandleVerifyCURP)
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/ciudadanos/perfil/", h.HandleProfile)
	r.Get("/ciudadanos/lista/", h.HandleList)
	r.Get("/ciudadanos/actualizar/{id}/", h.HandleGet)
	r.Patch("/ciudadanos/actualizar/{id}/", h.HandleUpdate)
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	log := h.logger.WarnContext
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		log = h.logger.ErrorContext
	}
	log(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.Register(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "citizen registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCitizen(c))
}

func (h *Handler) HandleLookupCURP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.service.LookupCURP(ctx, r.URL.Query().Get("curp"))
	if err != nil {
		h.writeFailure(ctx, w, "curp lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCURP(rec))
}

// HandleVerifyCURP answers 204 when the CURP can still be registered.
func (h *Handler) HandleVerifyCURP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.VerifyCURP(ctx, r.URL.Query().Get("curp")); err != nil {
		h.writeFailure(ctx, w, "curp verification failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := h.service.Profile(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "citizen profile failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCitizen(c))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := models.Filter{Search: r.URL.Query().Get("q")}
	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.Field(key, "debe ser un entero no negativo"))
			return
		}
		*dst = n
	}
	citizens, err := h.service.List(ctx, policy.ActorFromContext(ctx), filter)
	if err != nil {
		h.writeFailure(ctx, w, "list citizens failed", err)
		return
	}
	out := make([]CitizenResponse, 0, len(citizens))
	for _, c := range citizens {
		out = append(out, toCitizen(c))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func citizenParam(r *http.Request) (id.CitizenID, error) {
	return id.ParseCitizenID(chi.URLParam(r, "id"))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, err := citizenParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.Get(ctx, policy.ActorFromContext(ctx), citizenID)
	if err != nil {
		h.writeFailure(ctx, w, "get citizen failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCitizen(c))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, err := citizenParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.Update(ctx, policy.ActorFromContext(ctx), citizenID, req.input)
	if err != nil {
		h.writeFailure(ctx, w, "update citizen failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCitizen(c))
}
