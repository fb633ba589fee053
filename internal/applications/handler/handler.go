package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portal/internal/applications/models"
	"portal/internal/applications/service"
	"portal/internal/policy"
	"portal/internal/uploads"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	"portal/pkg/requestcontext"
)

// Service defines the application operations used by the HTTP layer.
type Service interface {
	Create(ctx context.Context, actor policy.Actor, in models.Submission) (*models.Application, error)
	List(ctx context.Context, actor policy.Actor, filter models.Filter) ([]service.Summary, error)
	Get(ctx context.Context, actor policy.Actor, appID id.ApplicationID) (*service.Detail, error)
	ChangeStatus(ctx context.Context, actor policy.Actor, appID id.ApplicationID, in models.StatusChange) (*models.Application, error)
	Completeness(ctx context.Context, actor policy.Actor, appID id.ApplicationID) (models.Completeness, error)
	History(ctx context.Context, actor policy.Actor, appID id.ApplicationID) (*models.Application, []service.HistoryItem, error)
	UploadDocument(ctx context.Context, actor policy.Actor, appID id.ApplicationID, f models.Upload) (*models.Document, error)
	Assign(ctx context.Context, actor policy.Actor, in models.AssignmentInput) (*models.Assignment, error)
	MyAssignments(ctx context.Context, actor policy.Actor) ([]*models.Assignment, error)
	Dashboard(ctx context.Context, actor policy.Actor) (*service.Dashboard, error)
	Stats(ctx context.Context, actor policy.Actor) (*service.Stats, error)
	DepartmentLoads(ctx context.Context, actor policy.Actor) ([]service.DepartmentLoad, error)
	Trends(ctx context.Context, actor policy.Actor, period int) (*service.Trends, error)
}

type Handler struct {
	service   Service
	logger    *slog.Logger
	bodyLimit int64
}

// defaultBodyLimit leaves room for several documents at the upload limit.
const defaultBodyLimit = 8 * uploads.DefaultMaxBytes

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, bodyLimit: defaultBodyLimit}
}

// WithBodyLimit caps multipart request bodies.
func (h *Handler) WithBodyLimit(n int64) *Handler {
	if n > 0 {
		h.bodyLimit = n
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/tramites", func(r chi.Router) {
		r.Post("/solicitudes/", h.HandleCreate)
		r.Get("/solicitudes/", h.HandleList)
		r.Get("/solicitudes/{id}/", h.HandleGet)
		r.Post("/solicitudes/{id}/cambiar_estatus/", h.HandleChangeStatus)
		r.Get("/solicitudes/{id}/verificar_documentacion/", h.HandleCompleteness)
		r.Get("/solicitudes/{id}/historial/", h.HandleHistory)
		r.Post("/solicitudes/{id}/documentos/", h.HandleUploadDocument)
		r.Post("/asignaciones/asignar_solicitud/", h.HandleAssign)
		r.Get("/asignaciones/mis_asignaciones/", h.HandleMyAssignments)
		r.Get("/dashboard/", h.HandleDashboard)
		r.Get("/estadisticas/", h.HandleStats)
		r.Get("/estadisticas/dependencias/", h.HandleDepartmentLoads)
		r.Get("/estadisticas/tendencias/", h.HandleTrends)
	})
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func applicationID(r *http.Request) (id.ApplicationID, error) {
	return id.ParseApplicationID(chi.URLParam(r, "id"))
}

// HandleCreate accepts JSON or a multipart form whose file parts are named
// after the requirement they satisfy.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req *SubmissionRequest
	if isMultipart(r) {
		if err := parseMultipart(w, r, h.bodyLimit); err != nil {
			h.writeFailure(ctx, w, "failed to parse submission", err)
			return
		}
		defer r.MultipartForm.RemoveAll()
		req = &SubmissionRequest{
			Procedure: formValue(r, "tramite"),
			Program:   formValue(r, "programa"),
		}
		if d := formValue(r, "descripcion"); d != nil {
			req.Description = *d
		}
		if err := req.Validate(); err != nil {
			h.writeFailure(ctx, w, "invalid submission", err)
			return
		}
		files, closers := submissionFiles(ctx, h.logger, r.MultipartForm)
		defer closeAll(closers)
		req.input.Files = files
	} else {
		var ok bool
		req, ok = httputil.DecodeAndPrepare[SubmissionRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
	}

	actor := policy.ActorFromContext(ctx)
	app, err := h.service.Create(ctx, actor, req.input)
	if err != nil {
		h.writeFailure(ctx, w, "create application failed", err)
		return
	}
	d, err := h.service.Get(ctx, actor, app.ID)
	if err != nil {
		h.writeFailure(ctx, w, "get application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDetail(d))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	statuses, err := parseStatuses(q["estatus"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter := models.Filter{Statuses: statuses, Folio: q.Get("q")}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.Field("limit", "debe ser un entero positivo"))
			return
		}
		filter.Limit = n
	}
	rows, err := h.service.List(ctx, policy.ActorFromContext(ctx), filter)
	if err != nil {
		h.writeFailure(ctx, w, "list applications failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSummaries(rows))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Get(ctx, policy.ActorFromContext(ctx), appID)
	if err != nil {
		h.writeFailure(ctx, w, "get application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDetail(d))
}

func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusChangeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	actor := policy.ActorFromContext(ctx)
	if _, err := h.service.ChangeStatus(ctx, actor, appID, req.input); err != nil {
		h.writeFailure(ctx, w, "change status failed", err)
		return
	}
	d, err := h.service.Get(ctx, actor, appID)
	if err != nil {
		h.writeFailure(ctx, w, "get application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDetail(d))
}

func (h *Handler) HandleCompleteness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.Completeness(ctx, policy.ActorFromContext(ctx), appID)
	if err != nil {
		h.writeFailure(ctx, w, "completeness check failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompleteness(c))
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	app, items, err := h.service.History(ctx, policy.ActorFromContext(ctx), appID)
	if err != nil {
		h.writeFailure(ctx, w, "application history failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toHistory(app, items))
}

func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := applicationID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !isMultipart(r) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "multipart/form-data body is required"))
		return
	}
	if err := parseMultipart(w, r, h.bodyLimit); err != nil {
		h.writeFailure(ctx, w, "failed to parse document upload", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	reqID, err := optionalID(formValue(r, "requisito"), "requisito", id.ParseRequirementID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if reqID == nil {
		httputil.WriteError(w, dErrors.Field("requisito", "el requisito es obligatorio"))
		return
	}
	headers := r.MultipartForm.File["archivo"]
	if len(headers) == 0 {
		httputil.WriteError(w, dErrors.Field("archivo", "el archivo es obligatorio"))
		return
	}
	upload, closer, err := openUpload(*reqID, headers[0])
	if err != nil {
		h.writeFailure(ctx, w, "failed to read document upload", err)
		return
	}
	defer closer.Close()

	doc, err := h.service.UploadDocument(ctx, policy.ActorFromContext(ctx), appID, upload)
	if err != nil {
		h.writeFailure(ctx, w, "upload document failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDocument(doc))
}

func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AssignmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	as, err := h.service.Assign(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "assign application failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAssignment(as))
}

func (h *Handler) HandleMyAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.MyAssignments(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "list assignments failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAssignments(list))
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.service.Dashboard(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "dashboard failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDashboard(d))
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.service.Stats(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "stats failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStats(s))
}

func (h *Handler) HandleDepartmentLoads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loads, err := h.service.DepartmentLoads(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "department loads failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDepartmentLoads(loads))
}

func (h *Handler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	period, err := parseTrendPeriod(r.URL.Query().Get("period"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	t, err := h.service.Trends(ctx, policy.ActorFromContext(ctx), period)
	if err != nil {
		h.writeFailure(ctx, w, "trends failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTrends(t))
}
