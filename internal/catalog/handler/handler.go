package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portal/internal/catalog/models"
	"portal/internal/catalog/service"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	"portal/pkg/requestcontext"
)

// Service defines the catalog operations used by the HTTP layer.
type Service interface {
	ListDepartments(ctx context.Context, actor policy.Actor) ([]*models.Department, error)
	CreateDepartment(ctx context.Context, actor policy.Actor, in models.DepartmentInput) (*models.Department, error)
	UpdateDepartment(ctx context.Context, actor policy.Actor, deptID id.DepartmentID, in models.DepartmentInput) (*models.Department, error)

	ListOfficials(ctx context.Context, actor policy.Actor, department *id.DepartmentID) ([]*models.Official, error)
	CreateOfficial(ctx context.Context, actor policy.Actor, in models.OfficialInput) (*models.Official, error)

	ListProcedures(ctx context.Context, actor policy.Actor, q service.OfferingQuery) ([]*models.Procedure, error)
	GetProcedure(ctx context.Context, actor policy.Actor, procID id.ProcedureID) (*models.Procedure, error)
	CreateProcedure(ctx context.Context, actor policy.Actor, in models.ProcedureInput) (*models.Procedure, error)
	UpdateProcedure(ctx context.Context, actor policy.Actor, procID id.ProcedureID, in models.ProcedureInput) (*models.Procedure, error)
	DeleteProcedure(ctx context.Context, actor policy.Actor, procID id.ProcedureID) error

	ListPrograms(ctx context.Context, actor policy.Actor, q service.OfferingQuery) ([]*models.Program, error)
	GetProgram(ctx context.Context, actor policy.Actor, progID id.ProgramID) (*models.Program, error)
	CreateProgram(ctx context.Context, actor policy.Actor, in models.ProgramInput) (*models.Program, error)
	UpdateProgram(ctx context.Context, actor policy.Actor, progID id.ProgramID, in models.ProgramInput) (*models.Program, error)
	DeleteProgram(ctx context.Context, actor policy.Actor, progID id.ProgramID) error

	ListRequirements(ctx context.Context, actor policy.Actor, q service.RequirementQuery) ([]models.Requirement, error)
	CreateRequirement(ctx context.Context, actor policy.Actor, in models.RequirementInput) (*models.Requirement, error)
	UpdateRequirement(ctx context.Context, actor policy.Actor, reqID id.RequirementID, in models.RequirementInput) (*models.Requirement, error)
	DeleteRequirement(ctx context.Context, actor policy.Actor, reqID id.RequirementID) error

	ListLocalities(ctx context.Context, postalCode string) ([]*models.Locality, error)
	GetLocality(ctx context.Context, locID id.LocalityID) (*models.Locality, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts catalog reads. They are served to anonymous callers
// too, so the router wraps them with optional authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/dependencias/", h.HandleListDepartments)
	r.Get("/servicios/catalogo/", h.HandleListProcedures)
	r.Get("/servicios/catalogo/{id}/", h.HandleGetProcedure)
	r.Get("/apoyos/programas/", h.HandleListPrograms)
	r.Get("/apoyos/programas/{id}/", h.HandleGetProgram)
	r.Get("/requisitos/", h.HandleListRequirements)
	r.Get("/localidades/", h.HandleListLocalities)
	r.Get("/localidades/{id}/", h.HandleGetLocality)
}

// Register mounts the authenticated catalog endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/dependencias/", h.HandleCreateDepartment)
	r.Patch("/dependencias/{id}/", h.HandleUpdateDepartment)
	r.Get("/funcionarios/", h.HandleListOfficials)
	r.Post("/funcionarios/", h.HandleCreateOfficial)
	r.Post("/servicios/catalogo/", h.HandleCreateProcedure)
	r.Patch("/servicios/catalogo/{id}/", h.HandleUpdateProcedure)
	r.Delete("/servicios/catalogo/{id}/", h.HandleDeleteProcedure)
	r.Post("/apoyos/programas/", h.HandleCreateProgram)
	r.Patch("/apoyos/programas/{id}/", h.HandleUpdateProgram)
	r.Delete("/apoyos/programas/{id}/", h.HandleDeleteProgram)
	r.Post("/requisitos/", h.HandleCreateRequirement)
	r.Patch("/requisitos/{id}/", h.HandleUpdateRequirement)
	r.Delete("/requisitos/{id}/", h.HandleDeleteRequirement)
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

// queryID reads an optional identifier from the query string.
func queryID[T any](r *http.Request, key string, parse func(string) (T, error)) (*T, error) {
	raw := r.URL.Query().Get(key)
	return optionalID(&raw, key, parse)
}

func offeringQuery(r *http.Request) (service.OfferingQuery, error) {
	dept, err := queryID(r, "departamento", id.ParseDepartmentID)
	if err != nil {
		return service.OfferingQuery{}, err
	}
	q := service.OfferingQuery{DepartmentID: dept, Search: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("destacado"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return service.OfferingQuery{}, dErrors.Field("destacado", "valor booleano inválido")
		}
		q.Featured = &featured
	}
	return q, nil
}

// Departments

func (h *Handler) HandleListDepartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	depts, err := h.service.ListDepartments(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.writeFailure(ctx, w, "list departments failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(depts, toDepartment))
}

func (h *Handler) HandleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[DepartmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	d, err := h.service.CreateDepartment(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "create department failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDepartment(d))
}

func (h *Handler) HandleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deptID, err := id.ParseDepartmentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[DepartmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	d, err := h.service.UpdateDepartment(ctx, policy.ActorFromContext(ctx), deptID, req.input)
	if err != nil {
		h.writeFailure(ctx, w, "update department failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDepartment(d))
}

// Officials

func (h *Handler) HandleListOfficials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dept, err := queryID(r, "dependencia", id.ParseDepartmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	officials, err := h.service.ListOfficials(ctx, policy.ActorFromContext(ctx), dept)
	if err != nil {
		h.writeFailure(ctx, w, "list officials failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(officials, toOfficial))
}

func (h *Handler) HandleCreateOfficial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[OfficialRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	o, err := h.service.CreateOfficial(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "create official failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOfficial(o))
}

// Procedures

func (h *Handler) HandleListProcedures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := offeringQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	procs, err := h.service.ListProcedures(ctx, policy.ActorFromContext(ctx), q)
	if err != nil {
		h.writeFailure(ctx, w, "list procedures failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(procs, toProcedure))
}

func (h *Handler) HandleGetProcedure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	procID, err := id.ParseProcedureID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetProcedure(ctx, policy.ActorFromContext(ctx), procID)
	if err != nil {
		h.writeFailure(ctx, w, "get procedure failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProcedure(p))
}

func (h *Handler) HandleCreateProcedure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ProcedureRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.CreateProcedure(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "create procedure failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toProcedure(p))
}

func (h *Handler) HandleUpdateProcedure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	procID, err := id.ParseProcedureID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProcedureRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.UpdateProcedure(ctx, policy.ActorFromContext(ctx), procID, req.input)
	if err != nil {
		h.writeFailure(ctx, w, "update procedure failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProcedure(p))
}

func (h *Handler) HandleDeleteProcedure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	procID, err := id.ParseProcedureID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteProcedure(ctx, policy.ActorFromContext(ctx), procID); err != nil {
		h.writeFailure(ctx, w, "delete procedure failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Programs

func (h *Handler) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := offeringQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	progs, err := h.service.ListPrograms(ctx, policy.ActorFromContext(ctx), q)
	if err != nil {
		h.writeFailure(ctx, w, "list programs failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(progs, toProgram))
}

func (h *Handler) HandleGetProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	progID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetProgram(ctx, policy.ActorFromContext(ctx), progID)
	if err != nil {
		h.writeFailure(ctx, w, "get program failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProgram(p))
}

func (h *Handler) HandleCreateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ProgramRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.CreateProgram(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "create program failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toProgram(p))
}

func (h *Handler) HandleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	progID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProgramRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.UpdateProgram(ctx, policy.ActorFromContext(ctx), progID, req.input)
	if err != nil {
		h.writeFailure(ctx, w, "update program failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProgram(p))
}

func (h *Handler) HandleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	progID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteProgram(ctx, policy.ActorFromContext(ctx), progID); err != nil {
		h.writeFailure(ctx, w, "delete program failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Requirements

func (h *Handler) HandleListRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	proc, err := queryID(r, "tramite", id.ParseProcedureID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	prog, err := queryID(r, "programa", id.ParseProgramID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reqs, err := h.service.ListRequirements(ctx, policy.ActorFromContext(ctx), service.RequirementQuery{ProcedureID: proc, ProgramID: prog})
	if err != nil {
		h.writeFailure(ctx, w, "list requirements failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(reqs, func(r models.Requirement) RequirementResponse { return toRequirement(&r) }))
}

func (h *Handler) HandleCreateRequirement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RequirementRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rq, err := h.service.CreateRequirement(ctx, policy.ActorFromContext(ctx), req.input)
	if err != nil {
		h.writeFailure(ctx, w, "create requirement failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRequirement(rq))
}

func (h *Handler) HandleUpdateRequirement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID, err := id.ParseRequirementID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RequirementRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rq, err := h.service.UpdateRequirement(ctx, policy.ActorFromContext(ctx), reqID, req.input)
	if err != nil {
		h.writeFailure(ctx, w, "update requirement failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRequirement(rq))
}

func (h *Handler) HandleDeleteRequirement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID, err := id.ParseRequirementID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteRequirement(ctx, policy.ActorFromContext(ctx), reqID); err != nil {
		h.writeFailure(ctx, w, "delete requirement failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Localities

func (h *Handler) HandleListLocalities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locs, err := h.service.ListLocalities(ctx, r.URL.Query().Get("codigo_postal"))
	if err != nil {
		h.writeFailure(ctx, w, "list localities failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(locs, toLocality))
}

func (h *Handler) HandleGetLocality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locID, err := id.ParseLocalityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	l, err := h.service.GetLocality(ctx, locID)
	if err != nil {
		h.writeFailure(ctx, w, "get locality failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocality(l))
}
