package models

import (
	"time"

	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
)

type DepartmentType string

const (
	DepartmentCoordination   DepartmentType = "COORDINACION"
	DepartmentDirectorate    DepartmentType = "DIRECCION"
	DepartmentSubdirectorate DepartmentType = "SUBDIRECCION"
	DepartmentOffice         DepartmentType = "DEPARTAMENTO"
	DepartmentOther          DepartmentType = "OTROS"
)

func ParseDepartmentType(s string) (DepartmentType, error) {
	switch t := DepartmentType(s); t {
	case DepartmentCoordination, DepartmentDirectorate, DepartmentSubdirectorate, DepartmentOffice, DepartmentOther:
		return t, nil
	}
	return "", dErrors.Field("tipo", "tipo de dependencia inválido")
}

// Department is an organizational unit. RepresentativeID is the titular
// Official, when one is designated.
type Department struct {
	ID               id.DepartmentID
	Name             string
	Acronym          string
	Type             DepartmentType
	RepresentativeID *id.OfficialID
	CreatedAt        time.Time
}

// Official is the staff profile linking a user account to one department.
type Official struct {
	ID           id.OfficialID
	UserID       id.UserID
	DepartmentID id.DepartmentID
	FullName     string
	Email        string
	Phone        string
	Position     string
	Sex          string
	CreatedAt    time.Time
}

type ProcedureType string

const (
	ProcedureGeneralRequest ProcedureType = "SOLICITUD_GENERAL"
	ProcedureAdministrative ProcedureType = "TRAMITE_ADMINISTRATIVO"
	ProcedureSocialSupport  ProcedureType = "APOYO_SOCIAL"
)

func ParseProcedureType(s string) (ProcedureType, error) {
	switch t := ProcedureType(s); t {
	case ProcedureGeneralRequest, ProcedureAdministrative, ProcedureSocialSupport:
		return t, nil
	}
	return "", dErrors.Field("tipo", "tipo de trámite inválido")
}

// Procedure is an administrative service offered by a department.
type Procedure struct {
	ID           id.ProcedureID
	DepartmentID id.DepartmentID
	Name         string
	Type         ProcedureType
	Description  string
	Featured     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Program is a social support program offered by a department.
type Program struct {
	ID           id.ProgramID
	DepartmentID id.DepartmentID
	Name         string
	Description  string
	Category     string
	Featured     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Requirement belongs to exactly one procedure or one program.
type Requirement struct {
	ID               id.RequirementID
	ProcedureID      *id.ProcedureID
	ProgramID        *id.ProgramID
	Name             string
	Description      string
	Mandatory        bool
	DocumentRequired bool
	CreatedAt        time.Time
}

// Locality is a postal-code settlement used in citizen addresses.
type Locality struct {
	ID           id.LocalityID
	PostalCode   string
	Neighborhood string
	Municipality string
	State        string
	Type         string
}

// OfferingFilter narrows procedure and program listings.
// DepartmentIDs nil means every department; an empty non-nil slice matches
// nothing.
type OfferingFilter struct {
	DepartmentIDs []id.DepartmentID
	ActiveOnly    bool
	Featured      *bool
	Search        string
}

// RequirementFilter narrows requirement listings. Parent filters combine
// with the department and active restrictions of the owning offering.
type RequirementFilter struct {
	ProcedureID   *id.ProcedureID
	ProgramID     *id.ProgramID
	DepartmentIDs []id.DepartmentID
	ActiveOnly    bool
}

type OfficialFilter struct {
	DepartmentIDs []id.DepartmentID
}
