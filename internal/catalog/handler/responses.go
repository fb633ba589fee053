package handler

import (
	"time"

	"portal/internal/catalog/models"
)

type DepartmentResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"nombre"`
	Acronym        string    `json:"siglas"`
	Type           string    `json:"tipo"`
	Representative *string   `json:"representante"`
	CreatedAt      time.Time `json:"fecha_creacion"`
}

type OfficialResponse struct {
	ID         string `json:"id"`
	User       string `json:"usuario"`
	Department string `json:"dependencia"`
	FullName   string `json:"nombre_completo"`
	Email      string `json:"correo"`
	Phone      string `json:"telefono"`
	Position   string `json:"cargo"`
	Sex        string `json:"sexo"`
}

type ProcedureResponse struct {
	ID          string    `json:"id"`
	Department  string    `json:"dependencia"`
	Name        string    `json:"nombre"`
	Type        string    `json:"tipo"`
	Description string    `json:"descripcion"`
	Featured    bool      `json:"destacado"`
	Active      bool      `json:"esta_activo"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
}

type ProgramResponse struct {
	ID          string    `json:"id"`
	Department  string    `json:"dependencia"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Category    string    `json:"categoria"`
	Featured    bool      `json:"destacado"`
	Active      bool      `json:"esta_activo"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
}

type RequirementResponse struct {
	ID               string  `json:"id"`
	Procedure        *string `json:"tramite"`
	Program          *string `json:"programa"`
	Name             string  `json:"nombre"`
	Description      string  `json:"descripcion"`
	Mandatory        bool    `json:"es_obligatorio"`
	DocumentRequired bool    `json:"requiere_documento"`
}

type LocalityResponse struct {
	ID           string `json:"id"`
	PostalCode   string `json:"codigo_postal"`
	Neighborhood string `json:"colonia"`
	Municipality string `json:"municipio"`
	State        string `json:"estado"`
	Type         string `json:"tipo"`
}

func stringer[T interface{ String() string }](v *T) *string {
	if v == nil {
		return nil
	}
	s := (*v).String()
	return &s
}

func toDepartment(d *models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:             d.ID.String(),
		Name:           d.Name,
		Acronym:        d.Acronym,
		Type:           string(d.Type),
		Representative: stringer(d.RepresentativeID),
		CreatedAt:      d.CreatedAt,
	}
}

func toOfficial(o *models.Official) OfficialResponse {
	return OfficialResponse{
		ID:         o.ID.String(),
		User:       o.UserID.String(),
		Department: o.DepartmentID.String(),
		FullName:   o.FullName,
		Email:      o.Email,
		Phone:      o.Phone,
		Position:   o.Position,
		Sex:        o.Sex,
	}
}

func toProcedure(p *models.Procedure) ProcedureResponse {
	return ProcedureResponse{
		ID:          p.ID.String(),
		Department:  p.DepartmentID.String(),
		Name:        p.Name,
		Type:        string(p.Type),
		Description: p.Description,
		Featured:    p.Featured,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProgram(p *models.Program) ProgramResponse {
	return ProgramResponse{
		ID:          p.ID.String(),
		Department:  p.DepartmentID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Featured:    p.Featured,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toRequirement(r *models.Requirement) RequirementResponse {
	return RequirementResponse{
		ID:               r.ID.String(),
		Procedure:        stringer(r.ProcedureID),
		Program:          stringer(r.ProgramID),
		Name:             r.Name,
		Description:      r.Description,
		Mandatory:        r.Mandatory,
		DocumentRequired: r.DocumentRequired,
	}
}

func toLocality(l *models.Locality) LocalityResponse {
	return LocalityResponse{
		ID:           l.ID.String(),
		PostalCode:   l.PostalCode,
		Neighborhood: l.Neighborhood,
		Municipality: l.Municipality,
		State:        l.State,
		Type:         l.Type,
	}
}

func mapAll[M any, R any](items []M, fn func(M) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
