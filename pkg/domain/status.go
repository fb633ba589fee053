package domain

import dErrors "portal/pkg/domain-errors"

// ApplicationStatus is the lifecycle state of a Solicitud. Any status may be
// set from any other; no ordering is enforced.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "PENDIENTE"
	StatusInReview  ApplicationStatus = "EN_REVISION"
	StatusNeedsInfo ApplicationStatus = "REQUIERE_INFORMACION"
	StatusApproved  ApplicationStatus = "APROBADO"
	StatusAccepted  ApplicationStatus = "ACEPTADO"
	StatusRejected  ApplicationStatus = "RECHAZADO"
)

// Statuses lists every status in display order.
var Statuses = []ApplicationStatus{
	StatusPending,
	StatusInReview,
	StatusNeedsInfo,
	StatusApproved,
	StatusAccepted,
	StatusRejected,
}

// ParseApplicationStatus validates external input.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.IsValid() {
		return "", dErrors.Field("estatus", "estatus inválido")
	}
	return st, nil
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInReview, StatusNeedsInfo, StatusApproved, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports the resolved states used for response-time statistics.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusAccepted || s == StatusRejected
}

// Label is the human readable Spanish name.
func (s ApplicationStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInReview:
		return "En revisión"
	case StatusNeedsInfo:
		return "Requiere información"
	case StatusApproved:
		return "Aprobado"
	case StatusAccepted:
		return "Aceptado"
	case StatusRejected:
		return "Rechazado"
	}
	return string(s)
}

func (s ApplicationStatus) String() string {
	return string(s)
}
