package handler

import (
	"strings"

	"portal/internal/citizens/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
)

func optionalLocality(raw *string) (*id.LocalityID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	loc, err := id.ParseLocalityID(strings.TrimSpace(*raw))
	if err != nil {
		return nil, dErrors.Field("localidad", "identificador inválido")
	}
	return &loc, nil
}

type RegisterRequest struct {
	CURP            string  `json:"curp"`
	FirstName       string  `json:"nombre"`
	PaternalSurname string  `json:"apellido_paterno"`
	MaternalSurname string  `json:"apellido_materno"`
	BirthDate       string  `json:"fecha_nacimiento"`
	Sex             string  `json:"sexo"`
	Email           string  `json:"correo"`
	Phone           string  `json:"telefono"`
	Street          string  `json:"calle"`
	ExteriorNumber  string  `json:"numero_exterior"`
	InteriorNumber  string  `json:"numero_interior"`
	Locality        *string `json:"localidad"`
	Password        string  `json:"password"`
	PasswordConfirm *string `json:"password_confirmacion"`

	input models.Registration
}

func (r *RegisterRequest) Validate() error {
	if r.PasswordConfirm != nil && *r.PasswordConfirm != r.Password {
		return dErrors.Field("password_confirmacion", "las contraseñas no coinciden")
	}
	loc, err := optionalLocality(r.Locality)
	if err != nil {
		return err
	}
	r.input = models.Registration{
		CURP:            r.CURP,
		FirstName:       r.FirstName,
		PaternalSurname: r.PaternalSurname,
		MaternalSurname: r.MaternalSurname,
		BirthDate:       r.BirthDate,
		Sex:             r.Sex,
		Email:           r.Email,
		Phone:           r.Phone,
		Street:          r.Street,
		ExteriorNumber:  r.ExteriorNumber,
		InteriorNumber:  r.InteriorNumber,
		LocalityID:      loc,
		Password:        r.Password,
	}
	return nil
}

type UpdateRequest struct {
	Email          *string `json:"correo"`
	Phone          *string `json:"telefono"`
	Street         *string `json:"calle"`
	ExteriorNumber *string `json:"numero_exterior"`
	InteriorNumber *string `json:"numero_interior"`
	Locality       *string `json:"localidad"`

	input models.Update
}

func (r *UpdateRequest) Validate() error {
	loc, err := optionalLocality(r.Locality)
	if err != nil {
		return err
	}
	r.input = models.Update{
		Email:          r.Email,
		Phone:          r.Phone,
		Street:         r.Street,
		ExteriorNumber: r.ExteriorNumber,
		InteriorNumber: r.InteriorNumber,
		LocalityID:     loc,
	}
	return nil
}
