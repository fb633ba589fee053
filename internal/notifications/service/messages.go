package service

import (
	"fmt"

	"portal/internal/notifications/models"
	id "portal/pkg/domain"
)

// TypeForStatus maps an application status to the notification type sent to
// the citizen.
func TypeForStatus(status id.ApplicationStatus) models.Type {
	switch status {
	case id.StatusPending:
		return models.TypeApplicationCreated
	case id.StatusInReview:
		return models.TypeApplicationInReview
	case id.StatusNeedsInfo:
		return models.TypeApplicationNeedsInfo
	case id.StatusApproved:
		return models.TypeApplicationApproved
	case id.StatusRejected:
		return models.TypeApplicationRejected
	}
	return models.TypeApplicationUpdated
}

// StatusTitle is the title of every citizen status notification.
func StatusTitle(folio string) string {
	return "Actualización de Solicitud " + folio
}

// StatusMessage is the citizen copy for status. A non-empty comment is
// appended.
func StatusMessage(status id.ApplicationStatus, folio, service, comment string) string {
	var msg string
	switch status {
	case id.StatusPending:
		msg = fmt.Sprintf("Tu solicitud %s de %s ha sido recibida y está en espera de revisión.", folio, service)
	case id.StatusInReview:
		msg = fmt.Sprintf("Tu solicitud %s de %s está siendo revisada por la dependencia correspondiente.", folio, service)
	case id.StatusNeedsInfo:
		msg = fmt.Sprintf("Tu solicitud %s de %s requiere información adicional.", folio, service)
	case id.StatusApproved:
		msg = fmt.Sprintf("¡Felicidades! Tu solicitud %s de %s ha sido aprobada.", folio, service)
	case id.StatusRejected:
		msg = fmt.Sprintf("Tu solicitud %s de %s ha sido rechazada.", folio, service)
	default:
		msg = fmt.Sprintf("Tu solicitud %s ha sido actualizada.", folio)
	}
	if comment != "" {
		msg += " Comentario: " + comment
	}
	return msg
}

func assignmentCopy(ref models.ApplicationRef) (string, string) {
	return "Nueva Solicitud Asignada: " + ref.Folio,
		fmt.Sprintf("Se te ha asignado la solicitud %s - %s. Ciudadano: %s.", ref.Folio, ref.ServiceName, ref.CitizenName)
}

func departmentCopy(ref models.ApplicationRef) (string, string) {
	return "Nueva Solicitud Recibida: " + ref.Folio,
		fmt.Sprintf("Nueva solicitud %s - %s de %s.", ref.Folio, ref.ServiceName, ref.CitizenName)
}

func documentCitizenCopy(ref models.ApplicationRef, requirement string) (string, string) {
	return "Documento Agregado",
		fmt.Sprintf("Se agregó el documento %s a tu solicitud %s.", requirement, ref.Folio)
}

func documentOfficialCopy(ref models.ApplicationRef, requirement string) (string, string) {
	return "Documento Recibido: " + ref.Folio,
		fmt.Sprintf("El ciudadano agregó el documento %s a la solicitud %s.", requirement, ref.Folio)
}

func baseMetadata(ref models.ApplicationRef) map[string]string {
	return map[string]string{
		"solicitud_id":  ref.ID.String(),
		"folio":         ref.Folio,
		"servicio":      ref.ServiceName,
		"tipo_servicio": ref.ServiceLabel(),
		"ciudadano":     ref.CitizenName,
	}
}
