package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
)

// BirthDateLayout is the wire and storage format of birth dates.
const BirthDateLayout = "2006-01-02"

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
)

func ParseSex(s string) (Sex, error) {
	switch v := Sex(strings.ToUpper(strings.TrimSpace(s))); v {
	case SexMale, SexFemale, SexOther:
		return v, nil
	case "H":
		return SexMale, nil
	}
	return "", dErrors.Field("sexo", "sexo inválido")
}

var (
	ErrDuplicateCURP  = fmt.Errorf("curp already registered: %w", sentinel.ErrConflict)
	ErrDuplicateEmail = fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
)

// IsDuplicate reports whether err is one of the uniqueness failures above.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateCURP) || errors.Is(err, ErrDuplicateEmail)
}

// Citizen is the resident profile attached one-to-one to a CIUDADANO user.
// The store keeps CURP, BirthDate, Email, Phone, Street and ExteriorNumber
// encrypted; this struct always carries plaintext.
type Citizen struct {
	ID              id.CitizenID
	UserID          id.UserID
	FirstName       string
	PaternalSurname string
	MaternalSurname string
	BirthDate       time.Time
	Sex             Sex
	CURP            string
	Email           string
	Phone           string
	Street          string
	ExteriorNumber  string
	InteriorNumber  string
	LocalityID      *id.LocalityID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c *Citizen) FullName() string {
	parts := []string{c.FirstName, c.PaternalSurname}
	if c.MaternalSurname != "" {
		parts = append(parts, c.MaternalSurname)
	}
	return strings.Join(parts, " ")
}

// Address renders street and numbers on one line.
func (c *Citizen) Address() string {
	addr := strings.TrimSpace(c.Street + " " + c.ExteriorNumber)
	if c.InteriorNumber != "" {
		addr += " int. " + c.InteriorNumber
	}
	return addr
}

// Filter narrows administrative listings. Search matches CURP or email
// exactly, or a fragment of the name.
type Filter struct {
	Search string
	Limit  int
	Offset int
}
