package models

import id "portal/pkg/domain"

type DepartmentInput struct {
	Name             *string
	Acronym          *string
	Type             *DepartmentType
	RepresentativeID *id.OfficialID
}

type OfficialInput struct {
	UserID       id.UserID
	DepartmentID id.DepartmentID
	FullName     string
	Email        string
	Phone        string
	Position     string
	Sex          string
}

// Offering inputs use nil for "not provided" so one type serves create and
// partial update.

type ProcedureInput struct {
	DepartmentID *id.DepartmentID
	Name         *string
	Type         *ProcedureType
	Description  *string
	Featured     *bool
	Active       *bool
}

type ProgramInput struct {
	DepartmentID *id.DepartmentID
	Name         *string
	Description  *string
	Category     *string
	Featured     *bool
	Active       *bool
}

type RequirementInput struct {
	ProcedureID      *id.ProcedureID
	ProgramID        *id.ProgramID
	Name             *string
	Description      *string
	Mandatory        *bool
	DocumentRequired *bool
}
