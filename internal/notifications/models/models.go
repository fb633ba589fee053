package models

import (
	"time"

	id "portal/pkg/domain"
)

type Type string

const (
	TypeApplicationCreated   Type = "SOLICITUD_CREADA"
	TypeApplicationUpdated   Type = "SOLICITUD_ACTUALIZADA"
	TypeApplicationInReview  Type = "SOLICITUD_EN_REVISION"
	TypeApplicationNeedsInfo Type = "SOLICITUD_REQUIERE_INFO"
	TypeApplicationApproved  Type = "SOLICITUD_APROBADA"
	TypeApplicationRejected  Type = "SOLICITUD_RECHAZADA"
	TypeApplicationAssigned  Type = "SOLICITUD_ASIGNADA"
	TypeDocumentReceived     Type = "DOCUMENTO_RECIBIDO"
	TypeSystem               Type = "SISTEMA"
)

// Notification is an in-app message for one user. After creation only the
// read flags and EmailSent change.
type Notification struct {
	ID            id.NotificationID
	UserID        id.UserID
	Type          Type
	Title         string
	Message       string
	Read          bool
	ReadAt        *time.Time
	ApplicationID *id.ApplicationID
	Metadata      map[string]string
	EmailRequired bool
	EmailSent     bool
	CreatedAt     time.Time
}

// Input is what callers hand the Manager. SuppressEmail keeps a citizen
// notification in-app only.
type Input struct {
	UserID        id.UserID
	Type          Type
	Title         string
	Message       string
	ApplicationID *id.ApplicationID
	Metadata      map[string]string
	SuppressEmail bool
}

type Filter struct {
	Read *bool
}

// ApplicationRef is the application data the message catalog needs.
type ApplicationRef struct {
	ID            id.ApplicationID
	Folio         string
	ServiceName   string
	ServiceKind   string
	DepartmentID  id.DepartmentID
	CitizenUserID id.UserID
	CitizenName   string
}

// ServiceLabel renders ServiceKind for metadata.
func (r ApplicationRef) ServiceLabel() string {
	if r.ServiceKind == "PROGRAMA" {
		return "Programa Social"
	}
	return "Trámite"
}
