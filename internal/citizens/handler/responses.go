package handler

import (
	"time"

	"portal/internal/citizens/curp"
	"portal/internal/citizens/models"
)

type CitizenResponse struct {
	ID              string    `json:"id"`
	User            string    `json:"usuario"`
	CURP            string    `json:"curp"`
	FirstName       string    `json:"nombre"`
	PaternalSurname string    `json:"apellido_paterno"`
	MaternalSurname string    `json:"apellido_materno"`
	FullName        string    `json:"nombre_completo"`
	BirthDate       string    `json:"fecha_nacimiento"`
	Sex             string    `json:"sexo"`
	Email           string    `json:"correo"`
	Phone           string    `json:"telefono"`
	Street          string    `json:"calle"`
	ExteriorNumber  string    `json:"numero_exterior"`
	InteriorNumber  string    `json:"numero_interior"`
	Locality        *string   `json:"localidad"`
	CreatedAt       time.Time `json:"fecha_registro"`
	UpdatedAt       time.Time `json:"fecha_actualizacion"`
}

func toCitizen(c *models.Citizen) CitizenResponse {
	resp := CitizenResponse{
		ID:              c.ID.String(),
		User:            c.UserID.String(),
		CURP:            c.CURP,
		FirstName:       c.FirstName,
		PaternalSurname: c.PaternalSurname,
		MaternalSurname: c.MaternalSurname,
		FullName:        c.FullName(),
		BirthDate:       c.BirthDate.Format(models.BirthDateLayout),
		Sex:             string(c.Sex),
		Email:           c.Email,
		Phone:           c.Phone,
		Street:          c.Street,
		ExteriorNumber:  c.ExteriorNumber,
		InteriorNumber:  c.InteriorNumber,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.LocalityID != nil {
		loc := c.LocalityID.String()
		resp.Locality = &loc
	}
	return resp
}

// CURPResponse mirrors the registry record so the registration form can be
// prefilled.
type CURPResponse struct {
	CURP            string `json:"curp"`
	Names           string `json:"nombres"`
	PaternalSurname string `json:"apellido_paterno"`
	MaternalSurname string `json:"apellido_materno"`
	BirthDate       string `json:"fecha_nacimiento"`
	Sex             string `json:"sexo"`
}

func toCURP(r *curp.Record) CURPResponse {
	return CURPResponse{
		CURP:            r.CURP,
		Names:           r.Names,
		PaternalSurname: r.PaternalSurname,
		MaternalSurname: r.MaternalSurname,
		BirthDate:       r.BirthDate,
		Sex:             r.Sex,
	}
}
