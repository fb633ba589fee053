// Package domain holds identifier and enumeration primitives shared by every
// bounded context. Identifiers are distinct named types over uuid.UUID so the
// compiler rejects passing a CitizenID where an ApplicationID is expected.
//
// Construct identifiers from external input with the Parse* functions; they
// reject empty, malformed and nil UUIDs with CodeInvalidInput.
package domain

import (
	"github.com/google/uuid"

	dErrors "portal/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	CitizenID      uuid.UUID
	DepartmentID   uuid.UUID
	OfficialID     uuid.UUID
	ProcedureID    uuid.UUID
	ProgramID      uuid.UUID
	RequirementID  uuid.UUID
	LocalityID     uuid.UUID
	ApplicationID  uuid.UUID
	DocumentID     uuid.UUID
	AssignmentID   uuid.UUID
	NotificationID uuid.UUID
)

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id CitizenID) String() string { return uuid.UUID(id).String() }
func (id DepartmentID) String() string { return uuid.UUID(id).String() }
func (id OfficialID) String() string { return uuid.UUID(id).String() }
func (id ProcedureID) String() string { return uuid.UUID(id).String() }
func (id ProgramID) String() string { return uuid.UUID(id).String() }
func (id RequirementID) String() string { return uuid.UUID(id).String() }
func (id LocalityID) String() string { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id AssignmentID) String() string { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CitizenID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DepartmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id OfficialID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProcedureID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProgramID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RequirementID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id LocalityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AssignmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func ParseUserID(s string) (UserID, error) { return parse[UserID](s, "user") }
func ParseCitizenID(s string) (CitizenID, error) { return parse[CitizenID](s, "citizen") }
func ParseDepartmentID(s string) (DepartmentID, error) { return parse[DepartmentID](s, "department") }
func ParseOfficialID(s string) (OfficialID, error) { return parse[OfficialID](s, "official") }
func ParseProcedureID(s string) (ProcedureID, error) { return parse[ProcedureID](s, "procedure") }
func ParseProgramID(s string) (ProgramID, error) { return parse[ProgramID](s, "program") }
func ParseRequirementID(s string) (RequirementID, error) {
	return parse[RequirementID](s, "requirement")
}
func ParseLocalityID(s string) (LocalityID, error) { return parse[LocalityID](s, "locality") }
func ParseApplicationID(s string) (ApplicationID, error) {
	return parse[ApplicationID](s, "application")
}
func ParseDocumentID(s string) (DocumentID, error) { return parse[DocumentID](s, "document") }
func ParseAssignmentID(s string) (AssignmentID, error) { return parse[AssignmentID](s, "assignment") }
func ParseNotificationID(s string) (NotificationID, error) {
	return parse[NotificationID](s, "notification")
}

func parse[T ~[16]byte](s, kind string) (T, error) {
	var zero T
	if s == "" {
		return zero, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return zero, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return zero, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return T(u), nil
}
