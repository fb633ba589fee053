package handler

import (
	"time"

	"portal/internal/applications/models"
	"portal/internal/applications/service"
	id "portal/pkg/domain"
)

type SummaryResponse struct {
	ID          string    `json:"id"`
	Folio       string    `json:"folio"`
	Procedure   *string   `json:"tramite"`
	Program     *string   `json:"programa"`
	ServiceName string    `json:"nombre_servicio"`
	Status      string    `json:"estatus"`
	StatusLabel string    `json:"estatus_display"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
}

type ApplicationResponse struct {
	SummaryResponse
	Citizen        string               `json:"ciudadano"`
	CitizenName    string               `json:"nombre_ciudadano"`
	ServiceKind    string               `json:"tipo_servicio"`
	DepartmentName string               `json:"nombre_dependencia"`
	Comments       string               `json:"comentarios"`
	Documents      []DocumentResponse   `json:"documentos"`
	Assignments    []AssignmentResponse `json:"asignaciones"`
	Complete       bool                 `json:"documentacion_completa"`
}

type DocumentResponse struct {
	ID          string    `json:"id"`
	Application string    `json:"solicitud"`
	Requirement string    `json:"requisito"`
	FileName    string    `json:"nombre_archivo"`
	ContentType string    `json:"tipo_contenido"`
	Size        int64     `json:"tamano"`
	UploadedAt  time.Time `json:"fecha_subida"`
}

type AssignmentResponse struct {
	ID          string    `json:"id"`
	Application string    `json:"solicitud"`
	Official    string    `json:"funcionario"`
	Department  string    `json:"dependencia"`
	Active      bool      `json:"activo"`
	Automatic   bool      `json:"es_asignacion_automatica"`
	AssignedBy  *string   `json:"asignado_por"`
	Notes       string    `json:"notas"`
	CreatedAt   time.Time `json:"fecha_asignacion"`
}

type RequirementStatusResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"nombre"`
	Mandatory        bool              `json:"es_obligatorio"`
	DocumentRequired bool              `json:"requiere_documento"`
	Uploaded         bool              `json:"documento_subido"`
	Document         *DocumentResponse `json:"documento"`
}

type CompletenessResponse struct {
	Complete     bool                        `json:"documentacion_completa"`
	Requirements []RequirementStatusResponse `json:"requisitos"`
	Total        int                         `json:"total_requisitos"`
	Uploaded     int                         `json:"documentos_subidos"`
}

type HistoryEventResponse struct {
	Status      string    `json:"estatus"`
	StatusLabel string    `json:"estatus_display"`
	At          time.Time `json:"fecha"`
	ChangedBy   string    `json:"cambio_por"`
	ChangeType  string    `json:"cambio_tipo"`
	Comments    string    `json:"comentarios"`
	Current     bool      `json:"es_actual"`
}

type StatusCountResponse struct {
	Code  string `json:"estatus_code"`
	Label string `json:"estatus_label"`
	Total int    `json:"total"`
}

type DashboardResponse struct {
	Welcome       string                `json:"mensaje_bienvenida"`
	Summary       []StatusCountResponse `json:"resumen_estatus"`
	AssignedCount int                   `json:"total_asignadas"`
	Latest        []SummaryResponse     `json:"ultimas_solicitudes"`
}

type StatsResponse struct {
	StatusDistribution  map[string]int `json:"status_distribution"`
	TotalUsers          int            `json:"total_users"`
	TotalCitizens       int            `json:"total_citizens"`
	TotalOfficials      int            `json:"total_officials"`
	RequestsToday       int            `json:"requests_today"`
	ActiveDepartments   int            `json:"active_departments"`
	AverageResponseDays float64        `json:"avg_response_time_days"`
}

type DepartmentLoadResponse struct {
	ID       string `json:"id"`
	Name     string `json:"nombre"`
	Pending  int    `json:"pending_count"`
	InReview int    `json:"in_review_count"`
}

// TrendsResponse holds parallel series indexed like Labels.
type TrendsResponse struct {
	Period   int      `json:"period"`
	Labels   []string `json:"labels"`
	Created  []int    `json:"requests_created"`
	Approved []int    `json:"requests_approved"`
	Rejected []int    `json:"requests_rejected"`
}

var changeLabels = map[models.ChangeType]string{
	models.ChangeCreated: "Creación",
	models.ChangeStatus:  "Cambio",
}

func optionalString[T interface{ String() string }](v *T) *string {
	if v == nil {
		return nil
	}
	s := (*v).String()
	return &s
}

func toSummary(a *models.Application, serviceName string) SummaryResponse {
	return SummaryResponse{
		ID:          a.ID.String(),
		Folio:       a.Folio,
		Procedure:   optionalString(a.ProcedureID),
		Program:     optionalString(a.ProgramID),
		ServiceName: serviceName,
		Status:      string(a.Status),
		StatusLabel: a.Status.Label(),
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toSummaries(rows []service.Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toSummary(r.Application, r.ServiceName))
	}
	return out
}

func toDocument(d *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		Application: d.ApplicationID.String(),
		Requirement: d.RequirementID.String(),
		FileName:    d.OriginalName,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedAt:  d.UploadedAt,
	}
}

func toAssignment(as *models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          as.ID.String(),
		Application: as.ApplicationID.String(),
		Official:    as.OfficialID.String(),
		Department:  as.DepartmentID.String(),
		Active:      as.Active,
		Automatic:   as.Automatic,
		AssignedBy:  optionalString(as.AssignedBy),
		Notes:       as.Notes,
		CreatedAt:   as.CreatedAt,
	}
}

func toAssignments(list []*models.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(list))
	for _, as := range list {
		out = append(out, toAssignment(as))
	}
	return out
}

func toDetail(d *service.Detail) ApplicationResponse {
	docs := make([]DocumentResponse, 0, len(d.Documents))
	for _, doc := range d.Documents {
		docs = append(docs, toDocument(doc))
	}
	return ApplicationResponse{
		SummaryResponse: toSummary(d.Application, d.ServiceName),
		Citizen:         d.Application.CitizenID.String(),
		CitizenName:     d.CitizenName,
		ServiceKind:     d.ServiceKind,
		DepartmentName:  d.DepartmentName,
		Comments:        d.Application.Comments,
		Documents:       docs,
		Assignments:     toAssignments(d.Assignments),
		Complete:        d.Complete,
	}
}

func toCompleteness(c models.Completeness) CompletenessResponse {
	out := CompletenessResponse{
		Complete:     c.Complete,
		Requirements: make([]RequirementStatusResponse, 0, len(c.Requirements)),
		Total:        c.Total,
		Uploaded:     c.Uploaded,
	}
	for _, r := range c.Requirements {
		item := RequirementStatusResponse{
			ID:               r.Requirement.ID.String(),
			Name:             r.Requirement.Name,
			Mandatory:        r.Requirement.Mandatory,
			DocumentRequired: r.Requirement.DocumentRequired,
			Uploaded:         r.Document != nil,
		}
		if r.Document != nil {
			doc := toDocument(r.Document)
			item.Document = &doc
		}
		out.Requirements = append(out.Requirements, item)
	}
	return out
}

// toHistory puts the application's current state ahead of its entries.
func toHistory(a *models.Application, items []service.HistoryItem) []HistoryEventResponse {
	out := make([]HistoryEventResponse, 0, len(items)+1)
	out = append(out, HistoryEventResponse{
		Status:      string(a.Status),
		StatusLabel: a.Status.Label(),
		At:          a.UpdatedAt,
		ChangedBy:   "Sistema",
		ChangeType:  "Actualización",
		Comments:    a.Comments,
		Current:     true,
	})
	for _, it := range items {
		label, ok := changeLabels[it.ChangeType]
		if !ok {
			label = "Cambio"
		}
		out = append(out, HistoryEventResponse{
			Status:      string(it.Status),
			StatusLabel: it.Status.Label(),
			At:          it.CreatedAt,
			ChangedBy:   it.ActorName,
			ChangeType:  label,
			Comments:    it.Comments,
		})
	}
	return out
}

func toDashboard(d *service.Dashboard) DashboardResponse {
	summary := make([]StatusCountResponse, 0, len(id.Statuses))
	for _, st := range id.Statuses {
		summary = append(summary, StatusCountResponse{Code: string(st), Label: st.Label(), Total: d.Counts[st]})
	}
	return DashboardResponse{
		Welcome:       d.Welcome,
		Summary:       summary,
		AssignedCount: d.AssignedCount,
		Latest:        toSummaries(d.Latest),
	}
}

func toStats(s *service.Stats) StatsResponse {
	dist := make(map[string]int, len(s.StatusDistribution))
	for st, n := range s.StatusDistribution {
		dist[string(st)] = n
	}
	return StatsResponse{
		StatusDistribution:  dist,
		TotalUsers:          s.TotalUsers,
		TotalCitizens:       s.TotalCitizens,
		TotalOfficials:      s.TotalOfficials,
		RequestsToday:       s.CreatedToday,
		ActiveDepartments:   s.Departments,
		AverageResponseDays: s.AverageResponseDays,
	}
}

func toDepartmentLoads(loads []service.DepartmentLoad) []DepartmentLoadResponse {
	out := make([]DepartmentLoadResponse, 0, len(loads))
	for _, l := range loads {
		out = append(out, DepartmentLoadResponse{ID: l.DepartmentID.String(), Name: l.Name, Pending: l.Pending, InReview: l.InReview})
	}
	return out
}

func toTrends(t *service.Trends) TrendsResponse {
	out := TrendsResponse{
		Period:   t.Period,
		Labels:   make([]string, 0, len(t.Days)),
		Created:  make([]int, 0, len(t.Days)),
		Approved: make([]int, 0, len(t.Days)),
		Rejected: make([]int, 0, len(t.Days)),
	}
	for _, d := range t.Days {
		out.Labels = append(out.Labels, d.Day.Format(time.DateOnly))
		out.Created = append(out.Created, d.Created)
		out.Approved = append(out.Approved, d.Approved)
		out.Rejected = append(out.Rejected, d.Rejected)
	}
	return out
}
