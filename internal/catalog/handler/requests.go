package handler

import (
	"strings"

	"portal/internal/catalog/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
)

// optionalID parses a nullable identifier field. A missing field or an empty
// string yields nil.
func optionalID[T any](raw *string, field string, parse func(string) (T, error)) (*T, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v, err := parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, dErrors.Field(field, "identificador inválido")
	}
	return &v, nil
}

type DepartmentRequest struct {
	Name           *string `json:"nombre"`
	Acronym        *string `json:"siglas"`
	Type           *string `json:"tipo"`
	Representative *string `json:"representante"`

	input models.DepartmentInput
}

func (r *DepartmentRequest) Validate() error {
	r.input = models.DepartmentInput{Name: r.Name, Acronym: r.Acronym}
	if r.Type != nil {
		t, err := models.ParseDepartmentType(strings.ToUpper(strings.TrimSpace(*r.Type)))
		if err != nil {
			return err
		}
		r.input.Type = &t
	}
	rep, err := optionalID(r.Representative, "representante", id.ParseOfficialID)
	if err != nil {
		return err
	}
	r.input.RepresentativeID = rep
	return nil
}

type OfficialRequest struct {
	User       string `json:"usuario"`
	Department string `json:"dependencia"`
	FullName   string `json:"nombre_completo"`
	Email      string `json:"correo"`
	Phone      string `json:"telefono"`
	Position   string `json:"cargo"`
	Sex        string `json:"sexo"`

	input models.OfficialInput
}

func (r *OfficialRequest) Validate() error {
	fields := map[string]string{}
	userID, err := id.ParseUserID(strings.TrimSpace(r.User))
	if err != nil {
		fields["usuario"] = "identificador inválido"
	}
	deptID, err := id.ParseDepartmentID(strings.TrimSpace(r.Department))
	if err != nil {
		fields["dependencia"] = "identificador inválido"
	}
	if len(fields) > 0 {
		return dErrors.Validation("datos de funcionario inválidos", fields)
	}
	r.input = models.OfficialInput{
		UserID:       userID,
		DepartmentID: deptID,
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		Position:     r.Position,
		Sex:          r.Sex,
	}
	return nil
}

type ProcedureRequest struct {
	Department  *string `json:"dependencia"`
	Name        *string `json:"nombre"`
	Type        *string `json:"tipo"`
	Description *string `json:"descripcion"`
	Featured    *bool   `json:"destacado"`
	Active      *bool   `json:"esta_activo"`

	input models.ProcedureInput
}

func (r *ProcedureRequest) Validate() error {
	dept, err := optionalID(r.Department, "dependencia", id.ParseDepartmentID)
	if err != nil {
		return err
	}
	r.input = models.ProcedureInput{
		DepartmentID: dept,
		Name:         r.Name,
		Description:  r.Description,
		Featured:     r.Featured,
		Active:       r.Active,
	}
	if r.Type != nil {
		t, err := models.ParseProcedureType(strings.ToUpper(strings.TrimSpace(*r.Type)))
		if err != nil {
			return err
		}
		r.input.Type = &t
	}
	return nil
}

type ProgramRequest struct {
	Department  *string `json:"dependencia"`
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Category    *string `json:"categoria"`
	Featured    *bool   `json:"destacado"`
	Active      *bool   `json:"esta_activo"`

	input models.ProgramInput
}

func (r *ProgramRequest) Validate() error {
	dept, err := optionalID(r.Department, "dependencia", id.ParseDepartmentID)
	if err != nil {
		return err
	}
	r.input = models.ProgramInput{
		DepartmentID: dept,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Featured:     r.Featured,
		Active:       r.Active,
	}
	return nil
}

type RequirementRequest struct {
	Procedure        *string `json:"tramite"`
	Program          *string `json:"programa"`
	Name             *string `json:"nombre"`
	Description      *string `json:"descripcion"`
	Mandatory        *bool   `json:"es_obligatorio"`
	DocumentRequired *bool   `json:"requiere_documento"`

	input models.RequirementInput
}

func (r *RequirementRequest) Validate() error {
	proc, err := optionalID(r.Procedure, "tramite", id.ParseProcedureID)
	if err != nil {
		return err
	}
	prog, err := optionalID(r.Program, "programa", id.ParseProgramID)
	if err != nil {
		return err
	}
	r.input = models.RequirementInput{
		ProcedureID:      proc,
		ProgramID:        prog,
		Name:             r.Name,
		Description:      r.Description,
		Mandatory:        r.Mandatory,
		DocumentRequired: r.DocumentRequired,
	}
	return nil
}
